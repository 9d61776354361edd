// Package errors provides standardized error handling for Nordify.
// It defines the error kinds produced by browsing, deleting and rendering,
// plus helpers for consistent creation, wrapping and classification.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Common error constants for frequently occurring errors
var (
	ErrFileNotFound  = NewFileError("file not found", "", FileNotFound, nil)
	ErrFileAccess    = NewFileError("file access denied", "", FileAccessDenied, nil)
	ErrInvalidPath   = NewFileError("invalid file path", "", InvalidPath, nil)
	ErrInvalidConfig = NewConfigError("invalid configuration", "", InvalidConfig, nil)
	ErrNoSelection   = NewInvalidInputError("no image selected", NoSelection, nil)
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	ListingFailed
	DeleteFailed
	StaleOrdinal
	// Transform error kinds
	TransformFailed
	UnsupportedFormat
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Input kinds. These describe commands that had no effect.
	InvalidNavigationTarget
	InvalidFilename
	InvalidKValue
	NoSelection
	// Database error kinds
	DatabaseOperationFailed
)

var kindNames = map[ErrorKind]string{
	Unknown:                 "unknown",
	FileNotFound:            "file_not_found",
	FileAccessDenied:        "file_access_denied",
	InvalidPath:             "invalid_path",
	ListingFailed:           "listing_failed",
	DeleteFailed:            "delete_failed",
	StaleOrdinal:            "stale_ordinal",
	TransformFailed:         "transform_failed",
	UnsupportedFormat:       "unsupported_format",
	InvalidConfig:           "invalid_config",
	ConfigNotFound:          "config_not_found",
	InvalidNavigationTarget: "invalid_navigation_target",
	InvalidFilename:         "invalid_filename",
	InvalidKValue:           "invalid_k_value",
	NoSelection:             "no_selection",
	DatabaseOperationFailed: "database_operation_failed",
}

// String returns the snake_case name of the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// TransformError represents a failed color-mapping render
type TransformError struct {
	ApplicationError
	mode   string
	input  string
	output string
}

// NewTransformError creates a new transform error
func NewTransformError(msg string, mode string, kind ErrorKind, err error) *TransformError {
	return &TransformError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		mode: mode,
	}
}

// WithPaths records the source and destination of the failed render
func (e *TransformError) WithPaths(input, output string) *TransformError {
	e.input = input
	e.output = output
	return e
}

// Error returns the transform error message
func (e *TransformError) Error() string {
	if e.mode != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: mode=%s: %v", e.msg, e.mode, e.err)
		}
		return fmt.Sprintf("%s: mode=%s", e.msg, e.mode)
	}
	return e.ApplicationError.Error()
}

// Mode returns the transform mode associated with the error
func (e *TransformError) Mode() string {
	return e.mode
}

// Input returns the source image path, if known
func (e *TransformError) Input() string {
	return e.input
}

// Output returns the destination image path, if known
func (e *TransformError) Output() string {
	return e.output
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first typed error in err's chain,
// or Unknown when there is none.
func KindOf(err error) ErrorKind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return Unknown
}

func fileErrorOfKind(err error, kind ErrorKind) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == kind
	}
	return false
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	return fileErrorOfKind(err, FileNotFound)
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	return fileErrorOfKind(err, FileAccessDenied)
}

// IsListingError checks if a directory could not be read
func IsListingError(err error) bool {
	return fileErrorOfKind(err, ListingFailed)
}

// IsDeleteError checks if the selected file could not be deleted.
// A selection that vanished before deletion is reported as FileNotFound
// and also counts as a delete error.
func IsDeleteError(err error) bool {
	var fileErr *FileError
	if !errors.As(err, &fileErr) {
		return false
	}
	return fileErr.Kind() == DeleteFailed || (fileErr.Kind() == FileNotFound && fileErr.msg == msgDeleteMissing)
}

// msgDeleteMissing is the message used when the selection is gone at delete time
const msgDeleteMissing = "selected file no longer exists"

// NewDeleteMissingError reports that the selected file vanished before deletion
func NewDeleteMissingError(path string, err error) *FileError {
	return NewFileError(msgDeleteMissing, path, FileNotFound, err)
}

// IsStaleOrdinal checks if a click referred to a listing that no longer matches disk
func IsStaleOrdinal(err error) bool {
	return fileErrorOfKind(err, StaleOrdinal)
}

// IsTransformError checks if the error came from the color mapper
func IsTransformError(err error) bool {
	var transformErr *TransformError
	return errors.As(err, &transformErr)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// DatabaseError represents errors related to database operations
type DatabaseError struct {
	ApplicationError
	operation string
	context   map[string]interface{}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(msg string, err error) *DatabaseError {
	return &DatabaseError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: DatabaseOperationFailed,
		},
		operation: "",
		context:   make(map[string]interface{}),
	}
}

// WithOperation adds operation information to the database error
func (e *DatabaseError) WithOperation(operation string) *DatabaseError {
	e.operation = operation
	return e
}

// WithContext adds context information to the database error
func (e *DatabaseError) WithContext(key string, value interface{}) *DatabaseError {
	e.context[key] = value
	return e
}

// Error returns the database error message
func (e *DatabaseError) Error() string {
	if e.operation != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: operation=%s: %v", e.msg, e.operation, e.err)
		}
		return fmt.Sprintf("%s: operation=%s", e.msg, e.operation)
	}
	return e.ApplicationError.Error()
}

// Operation returns the database operation associated with the error
func (e *DatabaseError) Operation() string {
	return e.operation
}

// Context returns the context information associated with the error
func (e *DatabaseError) Context() map[string]interface{} {
	return e.context
}

// InvalidInputError represents a command that was rejected without effect
type InvalidInputError struct {
	ApplicationError
	context map[string]interface{}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(msg string, kind ErrorKind, err error) *InvalidInputError {
	return &InvalidInputError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the invalid input error
func (e *InvalidInputError) WithContext(key string, value interface{}) *InvalidInputError {
	e.context[key] = value
	return e
}

// Error returns the invalid input error message
func (e *InvalidInputError) Error() string {
	return e.ApplicationError.Error()
}

// Context returns the context information associated with the error
func (e *InvalidInputError) Context() map[string]interface{} {
	return e.context
}

// IsDatabaseError checks if the error is a database error
func IsDatabaseError(err error) bool {
	var dbErr *DatabaseError
	return errors.As(err, &dbErr)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	var inputErr *InvalidInputError
	return errors.As(err, &inputErr)
}
