package respond

import (
	"github.com/gin-gonic/gin"

	"resume-builder-api/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body for resource routes.
type ErrorResponse struct {
	Status bool      `json:"status"`
	Error  ErrorBody `json:"error"`
}

// FailResponse is the flat failure shape used by auth routes and middleware.
type FailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	logError(c, status, code, message)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Status: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Fail sends a {success:false,message} response.
func Fail(c *gin.Context, status int, message string) {
	logError(c, status, "", message)
	c.AbortWithStatusJSON(status, FailResponse{Success: false, Message: message})
}

func logError(c *gin.Context, status int, code, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if code != "" {
		fields["code"] = code
	}
	if userID, ok := c.Get("userId"); ok {
		fields["user_id"] = userID
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
		return
	}
	telemetry.Warn("http.error", fields)
}
