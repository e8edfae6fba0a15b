package admin

import (
	"strings"
	"time"

	"github.com/palmapernia/tp-django/internal/constants"
	handlershared "github.com/palmapernia/tp-django/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

func currentUsername(c *gin.Context) string {
	if value, ok := c.Get("username"); ok {
		if name, ok := value.(string); ok {
			return name
		}
	}
	return ""
}

func isSuperuser(c *gin.Context) bool {
	if value, ok := c.Get("user_is_superuser"); ok {
		if flag, ok := value.(bool); ok {
			return flag
		}
	}
	return false
}

func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseDateNullable 校验 YYYY-MM-DD 日期参数
func parseDateNullable(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse(constants.VisitDateLayout, raw); err != nil {
		return "", err
	}
	return raw, nil
}
