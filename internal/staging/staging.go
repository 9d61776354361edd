// Package staging owns the temporary directory preview renders are written to.
package staging

import (
	"math/rand/v2"
	"os"
	"path/filepath"

	"nordify/internal/errors"
	"nordify/internal/log"
)

const (
	// DefaultPrefix names the temporary directory.
	DefaultPrefix = "nordify-"
	// DefaultSuffixLength is the number of random characters per preview name.
	DefaultSuffixLength = 3

	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Staging is a directory created once per session and removed by Teardown.
type Staging struct {
	root      string
	suffixLen int
	intn      func(n int) int
	torndown  bool
}

// Option configures a Staging.
type Option func(*options)

type options struct {
	baseDir   string
	prefix    string
	suffixLen int
	intn      func(n int) int
}

// WithBaseDir creates the directory under base instead of os.TempDir().
func WithBaseDir(base string) Option {
	return func(o *options) { o.baseDir = base }
}

// WithPrefix sets the directory name prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithSuffixLength sets how many random characters each preview name gets.
func WithSuffixLength(n int) Option {
	return func(o *options) { o.suffixLen = n }
}

// WithRand replaces the random source. intn must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(o *options) { o.intn = intn }
}

// New creates the staging directory.
func New(opts ...Option) (*Staging, error) {
	o := options{prefix: DefaultPrefix, suffixLen: DefaultSuffixLength, intn: rand.IntN}
	for _, opt := range opts {
		opt(&o)
	}
	if o.suffixLen < 1 {
		o.suffixLen = DefaultSuffixLength
	}

	root, err := os.MkdirTemp(o.baseDir, o.prefix)
	if err != nil {
		return nil, errors.NewFileError("cannot create staging directory", o.baseDir, errors.FileAccessDenied, err)
	}
	log.LogWithFields(log.F("root", root)).Debug("staging directory created")

	return &Staging{root: root, suffixLen: o.suffixLen, intn: o.intn}, nil
}

// Root returns the staging directory.
func (s *Staging) Root() string {
	return s.root
}

// NewOutputPath returns root/nordified<R>.png for a fresh random R. Existing
// files are not checked, so a name may repeat over a long session.
func (s *Staging) NewOutputPath() string {
	suffix := make([]byte, s.suffixLen)
	for i := range suffix {
		suffix[i] = alphabet[s.intn(len(alphabet))]
	}
	return filepath.Join(s.root, "nordified"+string(suffix)+".png")
}

// Teardown removes the directory and everything in it. Later calls do nothing.
func (s *Staging) Teardown() error {
	if s == nil || s.torndown {
		return nil
	}
	s.torndown = true
	if err := os.RemoveAll(s.root); err != nil {
		return errors.NewFileError("cannot remove staging directory", s.root, errors.DeleteFailed, err)
	}
	log.LogWithFields(log.F("root", s.root)).Debug("staging directory removed")
	return nil
}
