package public

import (
	"strings"

	handlershared "github.com/palmapernia/tp-django/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

func currentRequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if rid, ok := c.Get("request_id"); ok {
		if value, ok := rid.(string); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
