package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

type ErrorType int

const (
	ErrDiscovery ErrorType = iota
	ErrParse
	ErrTranslation
	ErrAlignment
	ErrWrite
	ErrConfig
	ErrUnknown
)

// Error is a classified pipeline failure
type Error struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *Error) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ctxParts := make([]string, 0, len(keys))
		for _, k := range keys {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

func (t ErrorType) String() string {
	switch t {
	case ErrDiscovery:
		return "Discovery"
	case ErrParse:
		return "Parse"
	case ErrTranslation:
		return "Translation"
	case ErrAlignment:
		return "Alignment"
	case ErrWrite:
		return "Write"
	case ErrConfig:
		return "Config"
	default:
		return "Unknown"
	}
}

type ErrorHandler interface {
	Handle(err error) bool
	GetAdvice(err *Error) string
}

type DefaultErrorHandler struct{}

func NewDefaultErrorHandler() ErrorHandler {
	return &DefaultErrorHandler{}
}

// Handle logs err with advice and reports whether it was a classified error
func (h *DefaultErrorHandler) Handle(err error) bool {
	var pErr *Error
	if !errors.As(err, &pErr) {
		log.Error("Unknown Error: %v", err)
		return false
	}

	log.Error("Error Detail: %v\n advice: %s", err, h.GetAdvice(pErr))
	return true
}

// GetAdvice returns error handling advice
func (h *DefaultErrorHandler) GetAdvice(err *Error) string {
	switch err.Type {
	case ErrDiscovery:
		return "Please check that the input directory exists and is readable"
	case ErrParse:
		return "Please verify the caption file is valid SRT in the configured encoding"
	case ErrTranslation:
		return "Please check the translation backend settings and network connectivity"
	case ErrAlignment:
		return "The backend altered the separator lines; try a smaller length_limit, another separator, or alignment = \"lenient\""
	case ErrWrite:
		return "Please ensure the output and temp directories are writable"
	case ErrConfig:
		return "Please check the config file, .env file and SUBBATCH_* environment variables"
	default:
		return "Please review detailed error information and check relevant configuration and files"
	}
}

func IsErrorType(err error, errorType ErrorType) bool {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Type == errorType
	}
	return false
}

// SafeExecute runs fn and turns a panic into an ErrUnknown error
func SafeExecute(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewError(ErrUnknown, fmt.Sprintf("runtime error: %v", r))
		}
	}()

	return fn()
}
