// Package response writes the JSON envelope every HTTP endpoint answers with.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Error codes carried in Envelope.Error.Code.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeNotEligible         = "NOT_ELIGIBLE"
	CodeCapExceeded         = "CAP_EXCEEDED"
	CodeInvalidResourceType = "INVALID_RESOURCE_TYPE"
	CodeInvalidState        = "INVALID_STATE_TRANSITION"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL"
)

// Error is the error part of an Envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the body of every response.
type Envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *Error    `json:"error,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func now() time.Time { return time.Now().UTC() }

// OK writes a 200 success envelope.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: "ok", Timestamp: now()})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: "created", Timestamp: now()})
}

// Fail writes a failure envelope.
func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, failure(code, message))
}

// Abort writes a failure envelope and stops the handler chain.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, failure(code, message))
}

func failure(code, message string) Envelope {
	return Envelope{
		Error:     &Error{Code: code, Message: message},
		Message:   message,
		Timestamp: now(),
	}
}
