// Package httperr maps domain errors onto the JSON error envelope every
// endpoint returns: {"error": <code>, "message": <detail>}.
package httperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"labbook/internal/store"
)

// Error is a client-visible failure with an HTTP status.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// Validation flags a missing or malformed request field.
func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "validation_error", Message: msg}
}

// Unauthorized flags a missing or invalid credential.
func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Message: msg}
}

// Forbidden flags a role that may not perform the operation.
func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "forbidden", Message: msg}
}

// NotFound flags an absent resource.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Message: msg}
}

// Conflict flags a uniqueness violation or a blocked delete.
func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Code: "conflict", Message: msg}
}

func internal() *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "internal_error", Message: "unexpected error"}
}

// From converts any error into an *Error, translating store sentinels.
// Unknown errors become a generic 500; the detail is logged, not returned.
func From(err error) *Error {
	var he *Error
	if errors.As(err, &he) {
		return he
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return NotFound(err.Error())
	case errors.Is(err, store.ErrConflict):
		return Conflict(err.Error())
	case errors.Is(err, store.ErrBadLinkage):
		return Validation(err.Error())
	}
	log.Printf("internal error: %v", err)
	return internal()
}

// Respond writes err as the JSON envelope and aborts the request.
func Respond(c *gin.Context, err error) {
	he := From(err)
	c.AbortWithStatusJSON(he.Status, he)
}
