package apperrors

import (
	"net/http"
)

// ErrNotFound converts a repository miss into a 404.
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

func ErrAlreadyExists(err error, domain, message string) *AppError {
	return Wrap(err, CodeAlreadyExists, domain, message, http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrUnsupportedType is returned when an operation does not apply to the event type.
func ErrUnsupportedType(domain, message string) *AppError {
	return New(CodeUnsupportedType, domain, message, http.StatusBadRequest)
}

// ErrInsufficientCapacity is returned when a booking would take availability below zero.
func ErrInsufficientCapacity(err error, domain, message string) *AppError {
	return Wrap(err, CodeInsufficientCapacity, domain, message, http.StatusConflict)
}

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrUserInactive covers pending, suspended and banned accounts.
var ErrUserInactive = New(
	CodeForbidden,
	"auth",
	"User account is not active",
	http.StatusForbidden,
)

var ErrCannotModifySelf = New(
	CodeForbidden,
	"user",
	"Operation on self is not allowed",
	http.StatusForbidden,
)
