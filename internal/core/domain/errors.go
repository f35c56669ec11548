package domain

import (
	"net/http"
	"strings"
)

// ErrorKind classifies a failure independently of its message.
type ErrorKind string

const (
	KindMissingFields      ErrorKind = "missing_fields"
	KindValidationFailed   ErrorKind = "validation_failed"
	KindBadRequest         ErrorKind = "bad_request"
	KindConflict           ErrorKind = "conflict"
	KindNotFound           ErrorKind = "not_found"
	KindDuplicateClaim     ErrorKind = "duplicate_claim"
	KindForbidden          ErrorKind = "forbidden"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindInvalidToken       ErrorKind = "invalid_token"
	KindExpiredToken       ErrorKind = "expired_token"
	KindInternal           ErrorKind = "internal"
)

// Error is the structured failure returned by the service layer. Code is the
// HTTP-equivalent status the boundary should answer with.
type Error struct {
	Kind    ErrorKind
	Code    int
	Message string
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrForbidden)
// holds for every forbidden variant.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details ...string) *Error {
	clone := *e
	clone.Details = append([]string(nil), details...)
	return &clone
}

func newError(kind ErrorKind, code int, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrMissingFields    = newError(KindMissingFields, http.StatusBadRequest, "missing fields")
	ErrValidationFailed = newError(KindValidationFailed, http.StatusBadRequest, "validation failed")
	ErrInvalidPayload   = newError(KindBadRequest, http.StatusBadRequest, "invalid payload")
	ErrEmptyUpdate      = newError(KindBadRequest, http.StatusBadRequest, "no data provided to update")
	ErrIdentityRequired = newError(KindBadRequest, http.StatusBadRequest, "a user id or an authenticated session is required")

	ErrUserExists   = newError(KindConflict, http.StatusConflict, "user already exists")
	ErrUserNotFound = newError(KindNotFound, http.StatusNotFound, "user not found")

	// ErrDuplicateClaim is returned when an update would take an email or nick
	// already owned by another user of the tenant. Existing clients expect 404
	// for this case, so the code stays 404 although the condition is a conflict.
	ErrDuplicateClaim = newError(KindDuplicateClaim, http.StatusNotFound, "the submitted data belongs to another user")

	ErrForbidden           = newError(KindForbidden, http.StatusForbidden, "access forbidden")
	ErrEditForbidden       = newError(KindForbidden, http.StatusForbidden, "only administrators can edit other users")
	ErrRoleChangeForbidden = newError(KindForbidden, http.StatusForbidden, "only administrators can change roles")
	ErrSelfDelete          = newError(KindForbidden, http.StatusForbidden, "you cannot delete your own account")
	ErrMissingToken        = newError(KindForbidden, http.StatusForbidden, "the request has no authentication header")
	ErrInsufficientRole    = newError(KindForbidden, http.StatusForbidden, "you do not have permission to perform this action")

	ErrInvalidCredentials = newError(KindInvalidCredentials, http.StatusBadRequest, "invalid credentials")
	ErrInvalidToken       = newError(KindInvalidToken, http.StatusBadRequest, "invalid token")
	ErrExpiredToken       = newError(KindExpiredToken, http.StatusUnauthorized, "token expired")

	ErrInternal = newError(KindInternal, http.StatusInternalServerError, "internal server error")
)
