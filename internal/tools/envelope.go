package tools

import (
	"errors"
	"runtime/debug"

	"github.com/coursedesk/course-survey-mcp/internal/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Payload is the uniform JSON-serializable tool response. Errors are
// encoded in it rather than propagated, so no failure crosses a tool
// boundary as a transport fault.
type Payload = map[string]any

type ErrorKind string

const (
	KindValidation         ErrorKind = "ValidationError"
	KindDependencyNotReady ErrorKind = "DependencyNotReady"
	KindStoreQuery         ErrorKind = "StoreQueryError"
	KindUnhandled          ErrorKind = "UnhandledException"
)

const stackTailLen = 4000

// Error builds the standardized error payload. The trace id lets callers
// correlate with server-side logs.
func Error(kind ErrorKind, message string) Payload {
	return Payload{
		"error":   message,
		"type":    string(kind),
		"traceId": uuid.NewString(),
	}
}

// ErrorWith is Error plus details and extra diagnostic fields.
func ErrorWith(kind ErrorKind, message, details string, extra Payload) Payload {
	p := Error(kind, message)
	if details != "" {
		p["details"] = details
	}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

// StoreError maps store failures onto the error taxonomy. Query errors
// carry the attempted query text for diagnosis.
func StoreError(err error) Payload {
	var qe *store.QueryError
	if errors.As(err, &qe) {
		return ErrorWith(KindStoreQuery, "store query failed", qe.Err.Error(), Payload{
			"query": qe.Query,
		})
	}
	if errors.Is(err, store.ErrNotReady) {
		return Error(KindDependencyNotReady, "document store not initialized")
	}
	return ErrorWith(KindUnhandled, "internal error", err.Error(), nil)
}

// Guard runs a tool body and converts a panic into the UnhandledException
// envelope, logged with the generated trace id and carrying the stack tail.
func Guard(logger *zerolog.Logger, tool string, fn func() Payload) Payload {
	var out Payload
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				out = unhandled(logger, tool, rec)
			}
		}()
		out = fn()
	}()
	return out
}

func unhandled(logger *zerolog.Logger, tool string, rec any) Payload {
	traceID := uuid.NewString()
	stack := string(debug.Stack())
	if len(stack) > stackTailLen {
		stack = stack[len(stack)-stackTailLen:]
	}

	logger.Error().
		Str("tool", tool).
		Str("traceId", traceID).
		Any("panic", rec).
		Msg("Unhandled tool failure")

	return Payload{
		"error":   "internal error",
		"type":    string(KindUnhandled),
		"traceId": traceID,
		"details": stack,
		"tool":    tool,
	}
}
