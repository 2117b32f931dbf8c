// Package codes defines the stable error codes surfaced by the engine and
// the CLI. Per-case scoring anomalies never become errors; only caller
// contract violations do.
package codes

import (
	"errors"
	"fmt"
)

const (
	ErrUsage           = "NG_E_USAGE"
	ErrInvalidJSON     = "NG_E_INVALID_JSON"
	ErrWorkflowUnknown = "NG_E_WORKFLOW_UNKNOWN"
	ErrCatalogInvalid  = "NG_E_CATALOG_INVALID"
	ErrDatasetInvalid  = "NG_E_DATASET_INVALID"
	ErrConfigInvalid   = "NG_E_CONFIG_INVALID"
	ErrProvider        = "NG_E_PROVIDER"
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func New(code string, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code string, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
