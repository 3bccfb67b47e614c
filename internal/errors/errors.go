// Package errors provides standardized error handling for extsort.
// It defines the error kinds shared by the configuration loader and the
// organizer engine, plus helpers for creating, wrapping and classifying them.
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

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Configuration stage
	ConfigNotFound
	ConfigUnreadable
	ConfigMalformed
	ConfigInvalidStructure
	// Organize stage
	DirectoryUnavailable
	FolderCreateFailed
	MoveFailed
	RunInProgress
)

var kindNames = map[ErrorKind]string{
	Unknown:                "unknown",
	ConfigNotFound:         "config not found",
	ConfigUnreadable:       "config unreadable",
	ConfigMalformed:        "config malformed",
	ConfigInvalidStructure: "config invalid structure",
	DirectoryUnavailable:   "directory unavailable",
	FolderCreateFailed:     "folder create failed",
	MoveFailed:             "move failed",
	RunInProgress:          "run in progress",
}

// String returns a readable name for the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kind sentinels. errors.Is matches any error of the same kind against them.
var (
	ErrConfigNotFound         = NewConfigError("configuration not found", "", ConfigNotFound, nil)
	ErrConfigUnreadable       = NewConfigError("configuration unreadable", "", ConfigUnreadable, nil)
	ErrConfigMalformed        = NewConfigError("configuration malformed", "", ConfigMalformed, nil)
	ErrConfigInvalidStructure = NewConfigError("invalid configuration structure", "", ConfigInvalidStructure, nil)
	ErrDirectoryUnavailable   = NewFileError("directory unavailable", "", DirectoryUnavailable, nil)
	ErrFolderCreateFailed     = NewFileError("folder creation failed", "", FolderCreateFailed, nil)
	ErrMoveFailed             = NewFileError("move failed", "", MoveFailed, nil)
	ErrRunInProgress          = NewFileError("organize run already in progress", "", RunInProgress, nil)
)

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

// Is matches errors of the same non-unknown kind.
func (e *ApplicationError) Is(target error) bool {
	k, ok := target.(interface{ Kind() ErrorKind })
	if !ok || e.kind == Unknown {
		return false
	}
	return k.Kind() == e.kind
}

// FileError represents errors related to file and directory operations
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

// ConfigError represents errors related to the configuration document
type ConfigError struct {
	ApplicationError
	source string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, source string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		source: source,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.source != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.source, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.source)
	}
	return e.ApplicationError.Error()
}

// Source returns the configuration source the error refers to
func (e *ConfigError) Source() string {
	return e.source
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

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsConfigNotFound checks if the error is a missing configuration error
func IsConfigNotFound(err error) bool {
	return errors.Is(err, ErrConfigNotFound)
}

// IsConfigMalformed checks if the error is a configuration syntax error
func IsConfigMalformed(err error) bool {
	return errors.Is(err, ErrConfigMalformed)
}

// IsConfigInvalidStructure checks if the error is a configuration shape error
func IsConfigInvalidStructure(err error) bool {
	return errors.Is(err, ErrConfigInvalidStructure)
}

// IsConfigError checks if the error comes from the configuration stage
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsDirectoryUnavailable checks if the error is a directory precondition failure
func IsDirectoryUnavailable(err error) bool {
	return errors.Is(err, ErrDirectoryUnavailable)
}

// IsMoveFailed checks if the error is a per-file move failure
func IsMoveFailed(err error) bool {
	return errors.Is(err, ErrMoveFailed)
}

// IsRunInProgress checks if another run already holds the directory
func IsRunInProgress(err error) bool {
	return errors.Is(err, ErrRunInProgress)
}
