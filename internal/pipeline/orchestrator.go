// Package pipeline runs the Preview, Save and Reset commands against the
// transform settings and the selection reported by navigation.
package pipeline

import (
	"os"
	"path/filepath"

	"nordify/internal/errors"
	"nordify/internal/log"
	"nordify/internal/mapper"
	"nordify/internal/staging"
	"nordify/internal/transform"
	"nordify/pkg/types"
)

// Renderer writes the recolored input to output. mapper.Transform is the
// production renderer.
type Renderer func(input, output string, opts mapper.Options) error

type strategyFunc func(k uint8) mapper.Mapper

// strategies has exactly one entry per mode.
var strategies = [types.NumModes]strategyFunc{
	types.Default: func(uint8) mapper.Mapper {
		return mapper.Nearest{Palette: mapper.Nord}
	},
	types.Creative: func(uint8) mapper.Mapper {
		return mapper.Creative{Palette: mapper.Nord}
	},
	types.Knn: func(k uint8) mapper.Mapper {
		return mapper.Memoize(mapper.NewKnn(int(k)))
	},
}

// Strategy returns a fresh mapper for mode. Memoized strategies start with an
// empty cache so one render never sees another's lookups.
func Strategy(mode types.Mode, k uint8) (mapper.Mapper, error) {
	if !mode.Valid() || strategies[mode] == nil {
		return nil, errors.NewTransformError("no strategy for mode", mode.String(), errors.Unknown, nil)
	}
	return strategies[mode](k), nil
}

// Orchestrator keeps its own copy of the selection and current directory,
// updated only through Apply.
type Orchestrator struct {
	config  *transform.Config
	staging *staging.Staging
	render  Renderer

	selection    string
	currentDir   string
	previewPath  string
	maxDimension int

	logger *log.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRenderer replaces mapper.Transform.
func WithRenderer(r Renderer) Option {
	return func(o *Orchestrator) { o.render = r }
}

// WithMaxDimension bounds preview renders. Saves are always full size.
func WithMaxDimension(n int) Option {
	return func(o *Orchestrator) { o.maxDimension = n }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an orchestrator. The staging directory stays owned by the caller.
func New(cfg *transform.Config, st *staging.Staging, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		config:  cfg,
		staging: st,
		render:  mapper.Transform,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Config returns the transform settings.
func (o *Orchestrator) Config() *transform.Config { return o.config }

// PreviewPath returns the latest preview render, or "".
func (o *Orchestrator) PreviewPath() string { return o.previewPath }

// Selection returns the selection last reported to Apply.
func (o *Orchestrator) Selection() string { return o.selection }

// CurrentDir returns the directory last reported to Apply.
func (o *Orchestrator) CurrentDir() string { return o.currentDir }

// Apply updates the orchestrator's view of navigation.
func (o *Orchestrator) Apply(ev types.Event) {
	switch e := ev.(type) {
	case types.DirectoryChanged:
		o.currentDir = e.Dir
	case types.SelectionChanged:
		o.selection = e.Path
	case types.Deleted:
		if e.Path == o.selection {
			o.selection = ""
		}
	}
}

// Preview renders the selection into a fresh staging file. Without a
// selection it does nothing and returns a NoSelection input error.
func (o *Orchestrator) Preview() ([]types.Event, error) {
	if o.selection == "" {
		return nil, noSelection()
	}

	output := o.staging.NewOutputPath()
	if err := o.run(output, o.maxDimension); err != nil {
		return nil, err
	}

	o.previewPath = output
	return []types.Event{types.PreviewReady{Path: output}}, nil
}

// Save renders the selection into the current directory under the chosen
// filename. An existing file at that path is replaced. Without a selection
// or with an invalid filename it does nothing and returns an input error.
func (o *Orchestrator) Save() ([]types.Event, error) {
	if o.selection == "" {
		return nil, noSelection()
	}
	if err := transform.ValidateFilename(o.config.Filename()); err != nil {
		return nil, err
	}

	destination := filepath.Join(o.currentDir, o.config.Filename())
	_, statErr := os.Stat(destination)
	overwrote := statErr == nil

	if err := o.run(destination, 0); err != nil {
		return nil, err
	}

	logger := o.logger.With(log.F("path", destination))
	if overwrote {
		logger.Warn("overwrote existing file")
	} else {
		logger.Info("saved render")
	}
	return []types.Event{types.Saved{Path: destination, Overwrote: overwrote}}, nil
}

// Reset restores the default mode and k, and suggests a filename for the
// selection.
func (o *Orchestrator) Reset() {
	o.config.Reset(o.selection)
}

func (o *Orchestrator) run(output string, maxDimension int) error {
	mode, k := o.config.Mode(), o.config.K()
	m, err := Strategy(mode, k)
	if err != nil {
		return err
	}

	logger := o.logger.With(
		log.F("input", o.selection),
		log.F("output", output),
		log.F("mode", mode.String()),
	)
	if mode == types.Knn {
		logger = logger.With(log.F("k", k))
	}
	logger.Debug("rendering")

	err = o.render(o.selection, output, mapper.Options{
		Mapper:       m,
		MaxDimension: maxDimension,
		Label:        mode.String(),
	})
	if err != nil {
		logger.WithError(err).Error("render failed")
		return err
	}
	return nil
}

func noSelection() error {
	return errors.NewInvalidInputError("no image selected", errors.NoSelection, nil)
}
