package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/felipefantin/check-list-EPI/internal/error/code"
)

// Response is the unified response envelope
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Success responds with a success envelope
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    code.ErrSuccess,
		Message: code.GetMessage(code.ErrSuccess),
		Data:    data,
	})
}

// Fail responds with the status and message mapped to errorCode
func Fail(c *gin.Context, errorCode int, data interface{}) {
	httpStatus := code.GetStatus(errorCode)
	message := code.GetMessage(errorCode)

	c.JSON(httpStatus, Response{
		Code:    errorCode,
		Message: message,
		Data:    data,
	})
}

// FailWithMessage responds with a custom message for errorCode
func FailWithMessage(c *gin.Context, errorCode int, message string, data interface{}) {
	httpStatus := code.GetStatus(errorCode)

	c.JSON(httpStatus, Response{
		Code:    errorCode,
		Message: message,
		Data:    data,
	})
}

// ParamError responds with a validation error and custom message
func ParamError(c *gin.Context, message string) {
	FailWithMessage(c, code.ErrValidation, message, nil)
}

// ValidationFailed responds with per-field validation errors
func ValidationFailed(c *gin.Context, fields []FieldError) {
	Fail(c, code.ErrValidation, gin.H{"errors": fields})
}

// ServerError responds with a generic server error
func ServerError(c *gin.Context) {
	Fail(c, code.ErrUnknown, nil)
}

// NotFound responds with a not-found error
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	FailWithMessage(c, code.ErrRecordNotFound, message, nil)
}

// Forbidden responds with an access-denied error
func Forbidden(c *gin.Context) {
	Fail(c, code.ErrForbidden, nil)
}

// Unauthorized responds with an invalid-token error
func Unauthorized(c *gin.Context) {
	Fail(c, code.ErrTokenInvalid, nil)
}
