package host

import (
	"errors"

	"github.com/born-ml/glmtok/internal/chat"
	"github.com/born-ml/glmtok/internal/tokenizer"
)

// Common errors.
var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrTokenizerUnavailable  = errors.New("tokenizer unavailable")
	ErrUnknownFunction       = errors.New("unknown function")
	ErrUnknownPrefillType    = errors.New("unknown prefill type")
	ErrMissingPrefillContent = errors.New("prefill is missing a required field")
)

// Error codes reported to transports.
const (
	CodeInvalidRequest       = "invalid_request"
	CodeTokenizationFailed   = "tokenization_failed"
	CodeDetokenizationFailed = "detokenization_failed"
	CodeUnavailable          = "tokenizer_unavailable"
	CodeInternal             = "internal"
)

// Error is returned by every Handler operation.
type Error struct {
	Op  string // tokenize, detokenize, chat_template, ...
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Code classifies the error.
func (e *Error) Code() string {
	var (
		tokErr   *tokenizer.TokenizationError
		detokErr *tokenizer.DetokenizationError
	)
	switch {
	case errors.Is(e.Err, ErrTokenizerUnavailable):
		return CodeUnavailable
	case errors.Is(e.Err, ErrInvalidRequest), errors.Is(e.Err, chat.ErrUnknownVersion):
		return CodeInvalidRequest
	case errors.As(e.Err, &tokErr):
		return CodeTokenizationFailed
	case errors.As(e.Err, &detokErr):
		return CodeDetokenizationFailed
	default:
		return CodeInternal
	}
}

// IsClientError reports whether err was caused by the request itself.
func IsClientError(err error) bool {
	var herr *Error
	if !errors.As(err, &herr) {
		return false
	}
	switch herr.Code() {
	case CodeInvalidRequest, CodeTokenizationFailed, CodeDetokenizationFailed:
		return true
	}
	return false
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var herr *Error
	if errors.As(err, &herr) {
		return err
	}
	return &Error{Op: op, Err: err}
}
