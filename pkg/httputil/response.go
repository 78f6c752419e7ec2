package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LucasNeuro/fta-form-sub000/pkg/errors"
)

// Response wraps all API responses.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error is the error half of the envelope.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// RespondWithError maps AppError codes to HTTP statuses; anything else is a 500.
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := errors.AsAppError(err); ok {
		status = appErr.StatusCode()
		message = appErr.Message
	}

	_ = c.Error(err)
	c.JSON(status, Response{
		Success: false,
		Error:   &Error{Code: status, Message: message},
	})
}

// RespondWithValidationError carries structured detail (e.g. the payment
// provider's field-level validation body) back to the operator verbatim.
func RespondWithValidationError(c *gin.Context, message string, details interface{}) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   &Error{Code: http.StatusBadRequest, Message: message, Details: details},
	})
}
