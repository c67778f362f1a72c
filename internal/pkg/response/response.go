// Package response renders the API's JSON envelope. Every endpoint answers
// with {"success": true, "data": ...} or {"success": false, "error": {...}},
// so clients branch on one field and error codes stay machine-readable.
package response

import "github.com/gin-gonic/gin"

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success writes the payload wrapped in the success envelope.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, envelope{Success: true, Data: data})
}

// Error writes an error envelope with a stable machine-readable code and a
// human-readable message.
func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, envelope{Success: false, Error: &errorBody{Code: code, Message: message}})
}

// ErrorWithDetails is Error plus a structured details payload, used when the
// client has to act on specifics (the conflicting seat, field errors).
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, envelope{Success: false, Error: &errorBody{Code: code, Message: message, Details: details}})
}
