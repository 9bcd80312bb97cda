package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-backend/apperrors"
)

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONAppError maps a service error onto the transport. Typed AppErrors keep
// their status and code; anything else is reported as an opaque 500.
func JSONAppError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body := gin.H{
			"success": false,
			"error":   appErr.Message,
			"code":    appErr.Code,
		}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		c.JSON(appErr.StatusCode(), body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "internal server error",
		"code":    apperrors.CodeInternal,
	})
}
