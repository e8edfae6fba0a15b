package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/palmapernia/tp-django/internal/authz"
	"github.com/palmapernia/tp-django/internal/cache"
	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/constants"
	"github.com/palmapernia/tp-django/internal/http/response"
	"github.com/palmapernia/tp-django/internal/logger"
	"github.com/palmapernia/tp-django/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = response.RequestIDKey
const requestIDHeader = "X-Request-ID"
const userIsStaffContextKey = "user_is_staff"
const userIsSuperuserContextKey = "user_is_superuser"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// UserJWTAuthMiddleware 用户 JWT 鉴权中间件，要求 Authorization: Bearer
func UserJWTAuthMiddleware(authService *service.UserAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService == nil {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "error.auth_header_missing")
			return
		}
		tokenString, ok := parseBearer(authHeader)
		if !ok {
			abortUnauthorized(c, "error.auth_header_invalid")
			return
		}

		state, errKey := authenticateUser(c, authService, tokenString)
		if errKey != "" {
			abortUnauthorized(c, errKey)
			return
		}
		setUserContext(c, state)
		c.Next()
	}
}

// OptionalUserAuthMiddleware 可选登录识别：Bearer 或 access_token Cookie，失败时按匿名处理
func OptionalUserAuthMiddleware(authService *service.UserAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService == nil {
			c.Next()
			return
		}
		tokenString, ok := parseBearer(c.GetHeader("Authorization"))
		if !ok {
			if value, err := c.Cookie(constants.AccessTokenCookie); err == nil {
				tokenString = strings.TrimSpace(value)
			}
		}
		if tokenString != "" {
			if state, errKey := authenticateUser(c, authService, tokenString); errKey == "" {
				setUserContext(c, state)
			}
		}
		c.Next()
	}
}

// StaffMiddleware 仅允许 is_staff 或超级用户访问
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if contextFlag(c, userIsStaffContextKey) || contextFlag(c, userIsSuperuserContextKey) {
			c.Next()
			return
		}
		response.Fail(c, response.ErrForbidden)
		c.Abort()
	}
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件，超级用户直接放行
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		if contextFlag(c, userIsSuperuserContextKey) {
			c.Next()
			return
		}

		userID, _ := c.Get(constants.ContextKeyUserID)
		id, ok := userID.(uint)
		if !ok || id == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceUser(id, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"user_id", id,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"user_id", id,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Fail(c, response.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

// authenticateUser 校验 Token 与用户状态，失败时返回错误文案 key
func authenticateUser(c *gin.Context, authService *service.UserAuthService, tokenString string) (*cache.UserAuthState, string) {
	claims, err := authService.ParseUserJWT(tokenString)
	if err != nil || claims == nil || claims.UserID == 0 {
		return nil, "error.token_invalid"
	}
	state, err := authService.ResolveAuthState(c.Request.Context(), claims.UserID)
	if err != nil || state == nil {
		return nil, "error.token_invalid"
	}
	if !isActiveUserStatus(state.Status) {
		return nil, "error.user_disabled"
	}
	if claims.TokenVersion != state.TokenVersion {
		return nil, "error.token_revoked"
	}
	return state, ""
}

func setUserContext(c *gin.Context, state *cache.UserAuthState) {
	c.Set(constants.ContextKeyUserID, state.UserID)
	c.Set("username", state.Username)
	c.Set(userIsStaffContextKey, state.IsStaff)
	c.Set(userIsSuperuserContextKey, state.IsSuperuser)
}

func parseBearer(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Fail(c, response.NewError(response.CodeUnauthorized, key))
	c.Abort()
}

func contextFlag(c *gin.Context, key string) bool {
	value, ok := c.Get(key)
	if !ok {
		return false
	}
	flag, ok := value.(bool)
	return ok && flag
}

func isActiveUserStatus(status string) bool {
	return strings.ToLower(strings.TrimSpace(status)) == constants.UserStatusActive
}
