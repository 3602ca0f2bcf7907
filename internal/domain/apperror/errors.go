// Package apperror holds the error taxonomy shared by the summarization
// pipeline. Messages are written for the person who asked for the summary;
// the wrapped cause is kept for logs.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindAuth
	KindRateLimit
	KindAPI
	KindFormat
	KindNetwork
	KindExtraction
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	case KindAPI:
		return "api"
	case KindFormat:
		return "format"
	case KindNetwork:
		return "network"
	case KindExtraction:
		return "extraction"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an error of the given kind. message is shown to the user; err
// is kept for logs.
func New(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func Config(message string, err error) *Error {
	return New(KindConfig, message, err)
}

// ErrMissingAPIKey is the cause of the Config error returned when no API key
// is configured.
var ErrMissingAPIKey = errors.New("api key is missing")

func MissingAPIKey() *Error {
	return Config("API key is missing. Please add it in the settings to use the summarization feature.", ErrMissingAPIKey)
}

// IsCredentialError reports whether err means the API key is absent or was
// rejected by the provider.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrMissingAPIKey) || Is(err, KindAuth)
}

func Auth() *Error {
	return &Error{
		Kind:       KindAuth,
		StatusCode: http.StatusUnauthorized,
		Message:    "Invalid API key. Please check your API key in the settings.",
	}
}

func RateLimit() *Error {
	return &Error{
		Kind:       KindRateLimit,
		StatusCode: http.StatusTooManyRequests,
		Message:    "API rate limit exceeded. Please try again later or check your subscription tier.",
	}
}

// API reports a non-2xx response other than 401/429. detail is the server's
// error message, or the status text when the body carried none.
func API(statusCode int, detail string) *Error {
	return &Error{
		Kind:       KindAPI,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("API error (%d): %s", statusCode, detail),
	}
}

// FromStatus maps an HTTP status to the matching error kind.
func FromStatus(statusCode int, detail string) *Error {
	switch statusCode {
	case http.StatusUnauthorized:
		return Auth()
	case http.StatusTooManyRequests:
		return RateLimit()
	default:
		if detail == "" {
			detail = http.StatusText(statusCode)
		}
		return API(statusCode, detail)
	}
}

func Format(message string, err error) *Error {
	return New(KindFormat, message, err)
}

// Network reports a transport failure before any HTTP status was received.
func Network(err error) *Error {
	return New(KindNetwork, "Network error: Could not connect to API endpoint. Please check your internet connection and the endpoint URL in settings.", err)
}

func Extraction(message string, err error) *Error {
	return New(KindExtraction, message, err)
}

// KindOf returns the kind of the first *Error in the chain, or KindUnknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// UserMessage returns the message meant for display, without the cause chain.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
