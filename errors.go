package main

import (
	"errors"
	"net/http"
	"strings"
)

// Error messages are part of the JSON contract and are returned to clients verbatim.
var (
	ErrInvalidInput     = errors.New("Invalid characters in input")
	ErrInvalidJSON      = errors.New("Invalid JSON")
	ErrTimeout          = errors.New("Process timed out")
	ErrNotFound         = errors.New("Not found")
	ErrMethodNotAllowed = errors.New("Method not allowed")
	ErrForbiddenPath    = errors.New("Forbidden")
)

// MissingFieldError is returned when required body fields are empty.
type MissingFieldError struct {
	Fields []string
}

func (me *MissingFieldError) Error() string {
	switch len(me.Fields) {
	case 0:
		return "missing fields"
	case 1:
		return me.Fields[0] + " is required"
	}
	last := len(me.Fields) - 1
	return strings.Join(me.Fields[:last], ", ") + " and " + me.Fields[last] + " are required"
}

// ProcessError carries the (filtered) diagnostic text of a failed solver run.
type ProcessError struct {
	Message string
}

func (me *ProcessError) Error() string {
	return me.Message
}

// AuthError hides the reason from clients; Err is for logs only.
type AuthError struct {
	Err error
}

func (me *AuthError) Error() string {
	return "Unauthorized"
}

func (me *AuthError) Unwrap() error {
	return me.Err
}

func statusFor(err error) int {
	var (
		missing *MissingFieldError
		autherr *AuthError
	)
	switch {
	case errors.As(err, &missing):
		return http.StatusBadRequest
	case errors.As(err, &autherr):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrForbiddenPath):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
