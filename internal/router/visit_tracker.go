package router

import (
	"net"
	"net/http"
	"strings"

	"github.com/palmapernia/tp-django/internal/constants"
	"github.com/palmapernia/tp-django/internal/service"

	"github.com/gin-gonic/gin"
)

// VisitTrackingMiddleware 页面访问统计中间件
// 在处理器之前同步执行，统计失败不影响请求。
func VisitTrackingMiddleware(tracker *service.VisitTracker, sessionKeyCookie string) gin.HandlerFunc {
	sessionKeyCookie = strings.TrimSpace(sessionKeyCookie)
	if sessionKeyCookie == "" {
		sessionKeyCookie = constants.SessionKeyCookieDefault
	}
	return func(c *gin.Context) {
		if !tracker.Enabled() {
			c.Next()
			return
		}

		req := service.VisitRequest{
			Path:      c.Request.URL.Path,
			URL:       c.Request.URL.RequestURI(),
			IPAddress: clientAddress(c.Request),
			UserAgent: c.Request.UserAgent(),
			Cookies:   c,
		}
		if value, ok := c.Get(constants.ContextKeyUserID); ok {
			if userID, ok := value.(uint); ok && userID > 0 {
				req.UserID = &userID
			}
		}
		if sessionKey, err := c.Cookie(sessionKeyCookie); err == nil {
			req.SessionKey = sessionKey
		}

		result := tracker.Track(c.Request.Context(), req)
		for _, cookie := range result.Cookies {
			http.SetCookie(c.Writer, cookie)
		}
		c.Set(constants.ContextKeyVisitResult, result)
		c.Next()
	}
}

// clientAddress X-Forwarded-For 的第一个值，否则取连接对端地址
func clientAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	remote := strings.TrimSpace(r.RemoteAddr)
	if remote == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(remote); err == nil {
		return host
	}
	return remote
}
