// Package services holds the application core: the post service, the user
// directory, and the authorization policy, all independent of HTTP concerns.
package services

import "errors"

// ErrorKind classifies a service failure. The API layer maps kinds to HTTP
// status codes; no other error detail crosses that boundary.
type ErrorKind int

const (
	KindValidationFailed ErrorKind = iota + 1
	KindNotFound
	KindUnauthenticated
	KindUnauthorized
	KindDuplicateUsername
)

// Error is a per-request, recoverable failure. Fields carries field-level
// validation messages when Kind is KindValidationFailed.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf extracts the kind from err, or zero when err is not a service error.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return 0
}

func errNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func errUnauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "authentication required"}
}

func errUnauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func errValidation(fields map[string]string) *Error {
	return &Error{Kind: KindValidationFailed, Message: "validation failed", Fields: fields}
}

func errDuplicateUsername() *Error {
	return &Error{Kind: KindDuplicateUsername, Message: "username already exists", Fields: map[string]string{"username": "already taken"}}
}
