package router

import (
	"fmt"
	"strings"

	"github.com/palmapernia/tp-django/internal/cache"
	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/constants"
	adminhandlers "github.com/palmapernia/tp-django/internal/http/handlers/admin"
	publichandlers "github.com/palmapernia/tp-django/internal/http/handlers/public"
	webhandlers "github.com/palmapernia/tp-django/internal/http/handlers/web"
	"github.com/palmapernia/tp-django/internal/http/response"
	"github.com/palmapernia/tp-django/internal/logger"
	"github.com/palmapernia/tp-django/internal/provider"
	"github.com/palmapernia/tp-django/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台/页面分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	webHandler := webhandlers.New(c)

	templates, err := webhandlers.Templates()
	if err != nil {
		logger.Errorw("router_templates_parse_failed", "error", err)
		panic(err)
	}
	r.SetHTMLTemplate(templates)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	loginGuard := NewLoginGuard(
		cache.Client(),
		fmt.Sprintf("%s:login", redisPrefix),
		cfg.Security.LoginRateLimit,
		recordRateLimitedLogin(c.UserLoginLogService),
	)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(c.Metrics.Middleware())
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(OptionalUserAuthMiddleware(c.UserAuthService))
	r.Use(VisitTrackingMiddleware(c.VisitTracker, cfg.Tracking.SessionKeyCookie))

	// 页面
	r.GET("/", webHandler.Home)
	r.GET("/blog/article/:id/", webHandler.ArticleDetail)
	r.GET("/polls/", webHandler.PollIndex)
	r.GET("/polls/:id/", webHandler.PollDetail)
	r.GET("/polls/:id/results/", webHandler.PollResults)
	r.POST("/polls/:id/vote/", webHandler.PollVote)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", loginGuard.Middleware(), publicHandler.UserLogin)
			auth.POST("/refresh", UserJWTAuthMiddleware(c.UserAuthService), publicHandler.UserRefreshToken)
		}

		me := apiV1.Group("/me")
		me.Use(UserJWTAuthMiddleware(c.UserAuthService))
		{
			me.GET("", publicHandler.GetCurrentUser)
			me.POST("/logout", publicHandler.UserLogout)
			me.PUT("/profile", publicHandler.UpdateUserProfile)
			me.PUT("/password", publicHandler.ChangeUserPassword)
			me.GET("/articles", publicHandler.GetMyArticles)
			me.GET("/polls", publicHandler.GetMyPolls)
			me.GET("/dashboard", publicHandler.GetMyDashboard)
		}

		blog := apiV1.Group("/blog")
		{
			blog.GET("/articles", publicHandler.ListArticles)
			blog.GET("/articles/:id", publicHandler.GetArticle)
			blog.GET("/comments", publicHandler.ListComments)

			blogAuth := blog.Group("")
			blogAuth.Use(UserJWTAuthMiddleware(c.UserAuthService))
			{
				blogAuth.POST("/articles", publicHandler.CreateArticle)
				blogAuth.PUT("/articles/:id", publicHandler.UpdateArticle)
				blogAuth.PATCH("/articles/:id", publicHandler.UpdateArticle)
				blogAuth.DELETE("/articles/:id", publicHandler.DeleteArticle)
				blogAuth.POST("/comments", publicHandler.CreateComment)
				blogAuth.PUT("/comments/:id", publicHandler.UpdateComment)
				blogAuth.PATCH("/comments/:id", publicHandler.UpdateComment)
				blogAuth.DELETE("/comments/:id", publicHandler.DeleteComment)
			}
		}

		polls := apiV1.Group("/polls")
		{
			polls.GET("/questions", publicHandler.ListQuestions)
			polls.GET("/questions/:id", publicHandler.GetQuestion)
			polls.GET("/questions/:id/results", publicHandler.GetQuestionResults)
			polls.GET("/choices", publicHandler.ListChoices)

			pollsAuth := polls.Group("")
			pollsAuth.Use(UserJWTAuthMiddleware(c.UserAuthService))
			{
				pollsAuth.POST("/questions", publicHandler.CreateQuestion)
				pollsAuth.PUT("/questions/:id", publicHandler.UpdateQuestion)
				pollsAuth.PATCH("/questions/:id", publicHandler.UpdateQuestion)
				pollsAuth.DELETE("/questions/:id", publicHandler.DeleteQuestion)
				pollsAuth.POST("/questions/:id/vote", publicHandler.VoteQuestion)
				pollsAuth.POST("/questions/:id/toggle", publicHandler.ToggleQuestion)
				pollsAuth.POST("/choices", publicHandler.CreateChoice)
				pollsAuth.PUT("/choices/:id", publicHandler.UpdateChoice)
				pollsAuth.PATCH("/choices/:id", publicHandler.UpdateChoice)
				pollsAuth.DELETE("/choices/:id", publicHandler.DeleteChoice)
			}
		}

		// 后台接口：登录 + is_staff + RBAC
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(c.UserAuthService), StaffMiddleware())
		{
			admin.GET("/authz/me", adminHandler.GetAuthzMe)

			authorized := admin.Group("")
			authorized.Use(AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)

				authorized.GET("/visits", adminHandler.GetPageViews)
				authorized.GET("/daily-visits", adminHandler.GetDailyVisits)
				authorized.POST("/visits/reset", adminHandler.ResetVisits)

				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.DELETE("/users/:id", adminHandler.DeleteAdminUser)
				authorized.GET("/users/:id/roles", adminHandler.GetAdminUserRoles)
				authorized.PUT("/users/:id/roles", adminHandler.SetAdminUserRoles)
				authorized.GET("/user-login-logs", adminHandler.GetUserLoginLogs)

				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.GET("/authz/roles/:role/permissions", adminHandler.GetAuthzRolePermissions)
				authorized.POST("/authz/grants", adminHandler.GrantAuthzPermission)
				authorized.DELETE("/authz/grants", adminHandler.RevokeAuthzPermission)
				authorized.GET("/authz/permissions", adminHandler.ListAuthzPermissions)
			}
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			response.Fail(ctx, response.ErrNotFound)
			return
		}
		webHandler.NotFound(ctx)
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled && c.Metrics != nil {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(c.Metrics.Handler()))
	}

	return r
}

// recordRateLimitedLogin 登录被限流时写入失败日志
func recordRateLimitedLogin(logService *service.UserLoginLogService) func(*gin.Context) {
	return func(c *gin.Context) {
		if logService == nil {
			return
		}
		_ = logService.Record(service.RecordUserLoginInput{
			Username:   readJSONField(c, "username"),
			Status:     constants.LoginLogStatusFailed,
			FailReason: constants.LoginLogFailReasonRateLimited,
			ClientIP:   c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
			RequestID:  getRequestID(c),
		})
	}
}
