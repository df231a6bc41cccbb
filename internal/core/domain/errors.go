package domain

import "fmt"

// ErrorKind classifies a business failure; the HTTP layer maps each kind to one status code.
type ErrorKind string

const (
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindAlreadyExists      ErrorKind = "ALREADY_EXISTS"
	KindInvalidToken       ErrorKind = "INVALID_TOKEN"
	KindAuthentication     ErrorKind = "AUTHENTICATION_FAILED"
	KindAccessDenied       ErrorKind = "ACCESS_DENIED"
	KindValidation         ErrorKind = "VALIDATION_FAILED"
	KindInvalidArgument    ErrorKind = "INVALID_ARGUMENT"
	KindDecisionFinalState ErrorKind = "DECISION_FINAL_STATE"
	KindConflict           ErrorKind = "CONFLICT"
)

// Error is a typed business error raised at the point of detection.
type Error struct {
	Kind    ErrorKind
	Message string
	// Field names the attribute that collided or failed, when there is exactly one.
	Field string
	// Fields carries field -> message pairs for validation failures.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works for every not-found.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrAlreadyExists      = &Error{Kind: KindAlreadyExists}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken}
	ErrAuthentication     = &Error{Kind: KindAuthentication, Message: "Invalid username or password"}
	ErrAccessDenied       = &Error{Kind: KindAccessDenied, Message: "You don't have permission to access this resource"}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrInvalidArgument    = &Error{Kind: KindInvalidArgument}
	ErrDecisionFinalState = &Error{Kind: KindDecisionFinalState}
	ErrConflict           = &Error{Kind: KindConflict}
)

// NotFound builds a not-found error, e.g. NotFound("Role", id).
func NotFound(resource string, key any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found with id: %v", resource, key)}
}

// NotFoundBy is NotFound for a lookup by a named field.
func NotFoundBy(resource, field string, value any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found with %s: %v", resource, field, value), Field: field}
}

// AlreadyExists reports a uniqueness collision on field.
func AlreadyExists(field, message string) *Error {
	return &Error{Kind: KindAlreadyExists, Message: message, Field: field}
}

// InvalidArgument reports a business rule violation.
func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Validation reports request shape failures keyed by field.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

// InvalidToken reports an unusable refresh token.
func InvalidToken(message string) *Error {
	return &Error{Kind: KindInvalidToken, Message: message}
}

// Conflict reports a lost optimistic-lock race.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// DecisionFinalState reports an attempt to mutate a terminal decision.
func DecisionFinalState(status DecisionStatus) *Error {
	return &Error{
		Kind:    KindDecisionFinalState,
		Message: fmt.Sprintf("Decision in status %s cannot be modified or deleted", status),
	}
}
