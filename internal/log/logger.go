// Package log is a small structured logger on top of logrus.
//
// Every entry carries the caller of the logging function. Interactive front
// ends point the package logger at a file with Configure(WithFile(...)) so
// terminal output stays clean.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"nordify/internal/errors"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is one key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes structured entries through logrus.
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
	file  *os.File
}

type options struct {
	out   io.Writer
	json  bool
	path  string
	level logrus.Level
	debug bool
}

// Option configures a Logger.
type Option func(*options)

// WithOutput sends entries to w.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile appends entries to path, creating its directory if needed.
// Without WithOutput the file is the only sink.
func WithFile(path string) Option {
	return func(o *options) { o.path = path }
}

// WithLevel sets the minimum level by name. Unknown names keep the default.
func WithLevel(level string) Option {
	return func(o *options) {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			o.level = lvl
			o.debug = lvl >= logrus.DebugLevel
		}
	}
}

// NewLogger creates a logger. The default sink is stdout in text form.
func NewLogger(opts ...Option) *Logger {
	o := options{level: logrus.DebugLevel}
	for _, opt := range opts {
		opt(&o)
	}

	if o.debug {
		SetDebug(true)
	}

	base := logrus.New()
	base.SetLevel(o.level)
	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg:  "message",
				logrus.FieldKeyTime: "timestamp",
			},
		})
	} else {
		base.SetFormatter(&textFormatter{})
	}

	l := &Logger{base: base}

	var sinks []io.Writer
	if o.out != nil {
		sinks = append(sinks, o.out)
	}
	if o.path != "" {
		if f, err := openLogFile(o.path); err == nil {
			l.file = f
			sinks = append(sinks, f)
		} else {
			fmt.Fprintf(os.Stderr, "log: cannot open %s: %v\n", o.path, err)
		}
	}
	switch len(sinks) {
	case 0:
		base.SetOutput(os.Stdout)
	case 1:
		base.SetOutput(sinks[0])
	default:
		base.SetOutput(io.MultiWriter(sinks...))
	}

	l.entry = logrus.NewEntry(base)
	return l
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Configure replaces the package logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Default returns the package logger.
func Default() *Logger {
	return logger
}

// SetDebug toggles debug entries for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// IsDebug reports whether debug entries are written.
func IsDebug() bool {
	return isDebug.Load()
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// With returns a child logger carrying fields.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{base: l.base, entry: l.entry.WithFields(data), file: l.file}
}

// WithError returns a child logger describing err.
func (l *Logger) WithError(err error) *Logger {
	return l.With(errorFields(err)...)
}

func (l *Logger) log(skip int, level logrus.Level, msg string) {
	if level == logrus.DebugLevel && !isDebug.Load() {
		return
	}
	entry := l.entry
	if _, file, line, ok := runtime.Caller(skip); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, msg)
}

func (l *Logger) Debug(msg string) { l.log(2, logrus.DebugLevel, msg) }
func (l *Logger) Info(msg string)  { l.log(2, logrus.InfoLevel, msg) }
func (l *Logger) Warn(msg string)  { l.log(2, logrus.WarnLevel, msg) }
func (l *Logger) Error(msg string) { l.log(2, logrus.ErrorLevel, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(2, logrus.DebugLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(2, logrus.InfoLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(2, logrus.WarnLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(2, logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// Package-level helpers write through the package logger.

func Debug(msg string) { logger.log(2, logrus.DebugLevel, msg) }
func Info(msg string)  { logger.log(2, logrus.InfoLevel, msg) }
func Warn(msg string)  { logger.log(2, logrus.WarnLevel, msg) }
func Error(msg string) { logger.log(2, logrus.ErrorLevel, msg) }

func Debugf(format string, args ...interface{}) {
	logger.log(2, logrus.DebugLevel, fmt.Sprintf(format, args...))
}

func Infof(format string, args ...interface{}) {
	logger.log(2, logrus.InfoLevel, fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...interface{}) {
	logger.log(2, logrus.WarnLevel, fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...interface{}) {
	logger.log(2, logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger with fields describing err.
func LogWithError(err error) *Logger {
	return logger.With(errorFields(err)...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	logger.With(errorFields(err)...).log(2, logrus.ErrorLevel, msg)
}

func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}

	fields := []Field{
		F("error", err.Error()),
		F("error_kind", errors.KindOf(err).String()),
	}

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	var transformErr *errors.TransformError
	if errors.As(err, &transformErr) && transformErr.Mode() != "" {
		fields = append(fields, F("mode", transformErr.Mode()))
	}
	var dbErr *errors.DatabaseError
	if errors.As(err, &dbErr) && dbErr.Operation() != "" {
		fields = append(fields, F("operation", dbErr.Operation()))
	}
	return fields
}

// textFormatter renders "[time] LEVEL: message key=value ..." with keys sorted.
type textFormatter struct{}

func (f *textFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var sb strings.Builder
	level := strings.ToUpper(e.Level.String())
	if e.Level == logrus.WarnLevel {
		level = "WARN"
	}
	fmt.Fprintf(&sb, "[%s] %s: %s", e.Time.Format("2006-01-02 15:04:05"), level, e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, e.Data[k])
	}
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}
