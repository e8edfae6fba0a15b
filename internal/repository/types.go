package repository

import "time"

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	StaffOnly   bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserLoginLogListFilter 查询用户登录日志列表的过滤条件
type UserLoginLogListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Username    string
	Status      string
	ClientIP    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PageViewListFilter 查询访问记录列表的过滤条件
type PageViewListFilter struct {
	Page      int
	PageSize  int
	URLPrefix string
	VisitorID string
	UserID    uint
	From      *time.Time
	To        *time.Time
}

// DailyVisitListFilter 查询每日汇总列表的过滤条件
type DailyVisitListFilter struct {
	Page     int
	PageSize int
	DateFrom string
	DateTo   string
}

// ArticleListFilter 查询文章列表的过滤条件
type ArticleListFilter struct {
	Page       int
	PageSize   int
	AuthorID   uint
	Search     string
	WithAuthor bool
}

// CommentListFilter 查询评论列表的过滤条件
type CommentListFilter struct {
	Page      int
	PageSize  int
	ArticleID uint
	AuthorID  uint
}

// QuestionListFilter 查询投票列表的过滤条件
type QuestionListFilter struct {
	Page        int
	PageSize    int
	AuthorID    uint
	ActiveOnly  bool
	WithChoices bool
}
