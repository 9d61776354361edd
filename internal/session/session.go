// Package session is the single place commands enter. It owns navigation,
// the transform pipeline and their resources, and routes the events each
// component emits to the others.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"nordify/internal/analysis"
	"nordify/internal/config"
	"nordify/internal/errors"
	"nordify/internal/history"
	"nordify/internal/log"
	"nordify/internal/navigate"
	"nordify/internal/pipeline"
	"nordify/internal/staging"
	"nordify/internal/transform"
	"nordify/internal/watch"
	"nordify/pkg/types"
)

// State is a snapshot for rendering. It shares nothing with the session.
type State struct {
	SessionID     string
	CurrentDir    string
	AddressText   string
	Entries       []types.DirectoryEntry
	Generation    uint64
	Selection     string
	SelectionInfo *types.ImageInfo
	Mode          types.Mode
	K             uint8
	Filename      string
	FilenameValid bool
	PreviewPath   string
	LastError     error
	Notice        string
}

// Session serializes commands. Every exported method is safe to call from
// several goroutines; commands still run one at a time.
type Session struct {
	mu sync.Mutex

	id      string
	cfg     *config.Config
	staging *staging.Staging
	nav     *navigate.Controller
	pipe    *pipeline.Orchestrator
	watcher *watch.Watcher
	history *history.Store
	engine  *analysis.Engine

	selectionInfo *types.ImageInfo
	lastError     error
	notice        string
	closed        bool

	logger *log.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	renderer    pipeline.Renderer
	lister      navigate.Lister
	stagingBase string
	historyOpts []history.Option
}

// WithRenderer replaces the mapper used by Preview and Save.
func WithRenderer(r pipeline.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithLister replaces the directory lister.
func WithLister(l navigate.Lister) Option {
	return func(o *options) { o.lister = l }
}

// WithStagingBase creates the staging directory under base.
func WithStagingBase(base string) Option {
	return func(o *options) { o.stagingBase = base }
}

// WithHistoryOptions passes options to the history store.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(o *options) { o.historyOpts = opts }
}

// Open acquires the staging directory, the start directory listing and,
// when enabled, the watcher and the history store. Callers must Close the
// session on every exit path.
func Open(cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = config.New()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New().String()
	s := &Session{
		id:     id,
		cfg:    cfg,
		engine: analysis.New(),
		logger: log.Default().With(log.F("session", id)),
	}
	// Release whatever was acquired before a failure
	opened := false
	defer func() {
		if !opened {
			s.release()
		}
	}()

	var err error
	s.staging, err = staging.New(
		staging.WithBaseDir(o.stagingBase),
		staging.WithPrefix(cfg.Preview.StagingPrefix),
		staging.WithSuffixLength(cfg.Preview.SuffixLength),
	)
	if err != nil {
		return nil, err
	}

	navOpts := []navigate.Option{navigate.WithLogger(s.logger)}
	if o.lister != nil {
		navOpts = append(navOpts, navigate.WithLister(o.lister))
	}
	s.nav, err = navigate.New(navigate.StartCandidates(cfg.Browse.StartDir), navOpts...)
	if err != nil {
		return nil, err
	}

	tc := transform.New(transform.Defaults{
		Mode:   cfg.Mode(),
		K:      cfg.K(),
		Suffix: cfg.Transform.OutputSuffix,
	})
	pipeOpts := []pipeline.Option{
		pipeline.WithLogger(s.logger),
		pipeline.WithMaxDimension(cfg.Preview.MaxDimension),
	}
	if o.renderer != nil {
		pipeOpts = append(pipeOpts, pipeline.WithRenderer(o.renderer))
	}
	s.pipe = pipeline.New(tc, s.staging, pipeOpts...)

	if cfg.Watch.Enabled {
		w, werr := watch.New(watch.DefaultBuffer)
		if werr != nil {
			// Listing still works without change detection
			s.logger.WithError(werr).Warn("directory watcher unavailable")
		} else {
			s.watcher = w
		}
	}

	if cfg.History.Enabled {
		store, herr := history.Open(config.ExpandHome(cfg.History.Path), o.historyOpts...)
		if herr != nil {
			s.logger.WithError(herr).Warn("history unavailable")
		} else {
			s.history = store
		}
	}

	// Let every component see the start directory
	s.route(types.DirectoryChanged{Dir: s.nav.CurrentDir()})

	s.logger.With(
		log.F("dir", s.nav.CurrentDir()),
		log.F("staging", s.staging.Root()),
		log.F("watch", s.watcher != nil),
		log.F("history", s.history != nil),
	).Info("session opened")
	opened = true
	return s, nil
}

// ID returns the session id attached to every log entry.
func (s *Session) ID() string { return s.id }

// Dispatch runs cmd to completion and routes the events it produced.
// Rejected input is kept as the notice; other failures become the last
// error. Either way the state is left as the component left it and the
// error is returned.
func (s *Session) Dispatch(cmd Command) ([]types.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errors.New("session is closed")
	}

	logger := s.logger.With(log.F("command", cmd.String()))
	if _, periodic := cmd.(Sync); !periodic {
		logger.Debug("dispatch")
		s.lastError = nil
		s.notice = ""
	}

	events, err := cmd.run(s)
	for i := 0; i < len(events); i++ {
		// route may append follow-up events
		events = append(events, s.route(events[i])...)
	}

	switch {
	case err == nil:
	case errors.IsInvalidInput(err):
		s.notice = err.Error()
		logger.With(log.F("kind", errors.KindOf(err).String())).Debug(s.notice)
	default:
		s.lastError = err
		logger.WithError(err).Error("command failed")
	}
	return events, err
}

// route delivers ev to every component that reacts to it and returns any
// events those reactions produced.
func (s *Session) route(ev types.Event) []types.Event {
	s.pipe.Apply(ev)

	switch e := ev.(type) {
	case types.DirectoryChanged:
		if s.history != nil {
			if err := s.history.Record(e.Dir); err != nil {
				s.logger.WithError(err).Warn("failed to record history")
			}
		}
		if s.watcher != nil {
			if err := s.watcher.Watch(e.Dir); err != nil {
				s.logger.WithError(err).Warn("failed to watch directory")
			}
		}

	case types.SelectionChanged:
		s.selectionInfo = nil
		if e.Path != "" {
			info, err := s.engine.Describe(e.Path)
			if err != nil {
				s.logger.WithError(err).Warn("cannot describe selection")
			}
			s.selectionInfo = info
		}

	case types.Saved:
		if e.Overwrote {
			s.notice = fmt.Sprintf("overwrote %s", e.Path)
		} else {
			s.notice = fmt.Sprintf("saved %s", e.Path)
		}
		// Make the new file visible
		events, err := s.nav.Refresh()
		if err != nil {
			s.lastError = err
			s.logger.WithError(err).Error("refresh after save failed")
		}
		return events

	case types.Deleted:
		s.notice = fmt.Sprintf("deleted %s", e.Path)

	case types.PreviewReady:
		s.logger.With(log.F("path", e.Path)).Debug("preview ready")
	}
	return nil
}

// State returns a snapshot of everything a front end renders.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	tc := s.pipe.Config()
	st := State{
		SessionID:     s.id,
		CurrentDir:    s.nav.CurrentDir(),
		AddressText:   s.nav.AddressText(),
		Entries:       s.nav.Entries(),
		Generation:    s.nav.Generation(),
		Selection:     s.nav.Selection(),
		Mode:          tc.Mode(),
		K:             tc.K(),
		Filename:      tc.Filename(),
		FilenameValid: tc.Valid(),
		PreviewPath:   s.pipe.PreviewPath(),
		LastError:     s.lastError,
		Notice:        s.notice,
	}
	if s.selectionInfo != nil {
		info := *s.selectionInfo
		st.SelectionInfo = &info
	}
	return st
}

// Recent returns recently visited directories, most frecent first. It is
// empty when history is disabled.
func (s *Session) Recent() ([]history.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.history == nil {
		return nil, nil
	}
	return s.history.Frecent(s.cfg.History.Limit)
}

// Close releases the history store, the watcher and the staging directory,
// in that order. It is safe to call more than once.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	err := s.release()
	s.logger.Info("session closed")
	return err
}

func (s *Session) release() error {
	var first error
	keep := func(err error) {
		if err != nil {
			s.logger.WithError(err).Warn("release failed")
			if first == nil {
				first = err
			}
		}
	}
	if s.history != nil {
		keep(s.history.Close())
	}
	if s.watcher != nil {
		keep(s.watcher.Close())
	}
	keep(s.staging.Teardown())
	return first
}
