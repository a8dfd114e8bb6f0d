package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeConflict       = "CONFLICT"
	CodeInternalError  = "INTERNAL_ERROR"
)

var (
	ErrNotFound      = New(http.StatusNotFound, CodeNotFound, "resource not found with given parameters")
	ErrInvalidReq    = New(http.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")
	ErrConflict      = New(http.StatusConflict, CodeConflict, "request conflicts with the current state of the resource")
	ErrInternalError = New(http.StatusInternalServerError, CodeInternalError, "internal server error occurred")
)

type Extras map[string]interface{}

// APIError is the error half of every endpoint result. Values are treated as
// immutable: Msg and WithExtras return modified copies.
type APIError struct {
	Code      int
	ErrorCode string
	Message   string
	Extras    Extras
}

func New(code int, errorCode string, message string) *APIError {
	return &APIError{Code: code, ErrorCode: errorCode, Message: message}
}

func (e APIError) Msg(format string, parts ...interface{}) *APIError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e APIError) WithExtras(extras Extras) *APIError {
	merged := make(Extras, len(e.Extras)+len(extras))
	for k, v := range e.Extras {
		merged[k] = v
	}
	for k, v := range extras {
		merged[k] = v
	}
	e.Extras = merged
	return &e
}

func NewInvalidViolations(violations interface{}) *APIError {
	return ErrInvalidReq.WithExtras(Extras{"violations": violations})
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Body is the JSON document written for the error.
func (e *APIError) Body() gin.H {
	body := gin.H{"code": e.ErrorCode, "message": e.Message}
	for k, v := range e.Extras {
		body[k] = v
	}
	return gin.H{"error": body}
}
