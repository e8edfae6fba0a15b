package constants

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 访问统计结果常量
const (
	VisitOutcomeExcluded       = "excluded"
	VisitOutcomeAlreadyCounted = "already_counted"
	VisitOutcomeRecorded       = "recorded"
	VisitOutcomeFailed         = "failed"
	VisitOutcomeDisabled       = "disabled"
)

// 访问统计 Cookie 与日期常量
const (
	VisitorCookieDefault       = "visitor_id"
	SessionVisitedPrefix       = "session_visited_"
	SessionKeyCookieDefault    = "sessionid"
	VisitorCookieMaxAgeSeconds = 365 * 24 * 60 * 60
	VisitDateLayout            = "2006-01-02"
	VisitorIDMaxLength         = 36
	SessionKeyMaxLength        = 40
	PageViewURLMaxLength       = 500
)

// 文章常量
const (
	ArticleTitleMaxLength = 200
	ArticleSummaryLength  = 150
	ArticleSummarySuffix  = "..."
)

// 投票常量
const (
	QuestionTextMaxLength = 200
	ChoiceTextMaxLength   = 200
	PollIndexLatestLimit  = 5
)

// 用户字段长度常量
const (
	UsernameMaxLength = 150
	NameMaxLength     = 150
)

// 内置角色常量
const (
	RoleStaff   = "staff"
	RoleAnalyst = "analyst"
)

// 队列常量
const (
	QueueDefault         = "default"
	TaskDashboardRefresh = "dashboard:refresh"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "tp"
	CacheKeyDashboard  = "dashboard:overview"
)

// 上下文键常量
const (
	ContextKeyUserID       = "user_id"
	ContextKeyVisitResult  = "visit_result"
	ContextKeyLoginOutcome = "login_outcome"
)

// AccessTokenCookie 页面端 JWT Cookie 名
const AccessTokenCookie = "access_token"

// 登录日志常量
const (
	LoginLogStatusSuccess               = "success"
	LoginLogStatusFailed                = "failed"
	LoginLogFailReasonInvalidCredential = "invalid_credentials"
	LoginLogFailReasonUserDisabled      = "user_disabled"
	LoginLogFailReasonRateLimited       = "rate_limited"
	LoginLogFailReasonInternalError     = "internal_error"
)
