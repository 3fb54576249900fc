package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Every error returned by this package unwraps to one of these,
// or is an unexpected storage error.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrEmptyState   = errors.New("empty state")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a domain error of a given kind with a client-facing message.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// Kind returns the sentinel this error belongs to.
func (e *Error) Kind() error { return e.kind }

var (
	ErrRecipeNotFound          = newError(ErrNotFound, "recipe not found")
	ErrUserNotFound            = newError(ErrNotFound, "user not found")
	ErrIngredientNotFound      = newError(ErrNotFound, "ingredient not found")
	ErrTagNotFound             = newError(ErrNotFound, "tag not found")
	ErrShortLinkNotFound       = newError(ErrNotFound, "short link not found")
	ErrEmptyCart               = newError(ErrEmptyState, "shopping cart is empty")
	ErrNoAvatar                = newError(ErrEmptyState, "avatar is not set")
	ErrNotAuthor               = newError(ErrForbidden, "only the author can modify this recipe")
	ErrSelfSubscription        = newError(ErrConflict, "cannot subscribe to yourself")
	ErrAlreadySubscribed       = newError(ErrConflict, "already subscribed to this author")
	ErrNotSubscribed           = newError(ErrConflict, "not subscribed to this author")
	ErrUserExists              = newError(ErrConflict, "a user with this email or username already exists")
	ErrInvalidCredentials      = newError(ErrValidation, "unable to log in with provided credentials")
	ErrWrongPassword           = newError(ErrValidation, "current password is incorrect")
	ErrInvalidToken            = newError(ErrUnauthorized, "invalid or expired token")
	ErrShortLinkSpaceExhausted = errors.New("could not allocate a unique short link code")
)

// ErrAlreadyInList is returned when a recipe is added to a list twice.
func ErrAlreadyInList(kind ListKind) *Error {
	return newError(ErrConflict, fmt.Sprintf("recipe is already in %s", kind))
}

// ErrNotInList is returned when removing a recipe that is not in the list.
func ErrNotInList(kind ListKind) *Error {
	return newError(ErrConflict, fmt.Sprintf("recipe is not in %s", kind))
}

// ValidationError collects messages per input field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// orNil avoids returning a typed nil through the error interface.
func (e *ValidationError) orNil() error {
	if e.Empty() {
		return nil
	}
	return e
}
