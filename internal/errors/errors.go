package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeMissingSource ErrorType = "MISSING_SOURCE"
	ErrTypeLoad          ErrorType = "LOAD"
	ErrTypeJoin          ErrorType = "JOIN"
	ErrTypeTransform     ErrorType = "TRANSFORM"
	ErrTypeExport        ErrorType = "EXPORT"
	ErrTypeConfig        ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Fatal reports whether an error of this type must stop the run
func (e *AppError) Fatal() bool {
	switch e.Type {
	case ErrTypeMissingSource, ErrTypeLoad, ErrTypeJoin, ErrTypeTransform, ErrTypeConfig:
		return true
	default:
		return false
	}
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewMissingSourceError reports a required input that does not exist
func NewMissingSourceError(dataset, path string) *AppError {
	return NewAppError(ErrTypeMissingSource, fmt.Sprintf("source %q not found at %s", dataset, path), nil).
		WithContext("dataset", dataset).
		WithContext("path", path)
}

// NewLoadError reports any other failure while reading a source
func NewLoadError(dataset, path string, cause error) *AppError {
	return NewAppError(ErrTypeLoad, fmt.Sprintf("failed to load %q from %s", dataset, path), cause).
		WithContext("dataset", dataset).
		WithContext("path", path)
}

// NewJoinError reports a join that could not be performed
func NewJoinError(key string, cause error) *AppError {
	return NewAppError(ErrTypeJoin, fmt.Sprintf("inner join on %q failed", key), cause).
		WithContext("key", key)
}

// NewTransformError reports a derivation or aggregation failure
func NewTransformError(message string, cause error) *AppError {
	return NewAppError(ErrTypeTransform, message, cause)
}

// NewExportError reports an output that could not be written
func NewExportError(path string, cause error) *AppError {
	return NewAppError(ErrTypeExport, fmt.Sprintf("failed to write %s", path), cause).
		WithContext("path", path)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err, or any error it wraps or joins, is an AppError
// of the given type.
func IsType(err error, errType ErrorType) bool {
	for _, e := range flatten(err) {
		var appErr *AppError
		if stderrors.As(e, &appErr) && appErr.Type == errType {
			return true
		}
	}
	return false
}

// All returns every AppError of the given type contained in err
func All(err error, errType ErrorType) []*AppError {
	var out []*AppError
	for _, e := range flatten(err) {
		var appErr *AppError
		if stderrors.As(e, &appErr) && appErr.Type == errType {
			out = append(out, appErr)
		}
	}
	return out
}

// IsFatal reports whether err must stop the run. It is false only when every
// error in the tree is an AppError whose type is not fatal; errors outside
// the taxonomy are fatal.
func IsFatal(err error) bool {
	for _, e := range flatten(err) {
		var appErr *AppError
		if !stderrors.As(e, &appErr) || appErr.Fatal() {
			return true
		}
	}
	return false
}

// Leaves returns the individual errors joined in err
func Leaves(err error) []error {
	return flatten(err)
}

// flatten expands errors.Join trees, including joins wrapped by fmt.Errorf,
// into their leaves
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*AppError); ok {
		return []error{err}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	if inner := stderrors.Unwrap(err); inner != nil {
		return flatten(inner)
	}
	return []error{err}
}
