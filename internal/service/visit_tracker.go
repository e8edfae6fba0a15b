package service

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/constants"
	"github.com/palmapernia/tp-django/internal/logger"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/repository"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"
)

// CookieReader 读取请求 Cookie，gin.Context 直接满足该接口
type CookieReader interface {
	Cookie(name string) (string, error)
}

// VisitObserver 访问统计结果观察者（指标上报）
type VisitObserver interface {
	ObserveVisit(outcome string)
}

// VisitRequest 一次页面请求的统计输入
type VisitRequest struct {
	Path       string // 不含查询串，用于排除判断
	URL        string // 完整路径与查询串，写入记录
	UserID     *uint
	IPAddress  string
	UserAgent  string
	SessionKey string
	Cookies    CookieReader
}

// TrackResult 统计结果
type TrackResult struct {
	Outcome    string
	Date       string
	VisitorID  string
	NewVisitor bool
	Unique     bool
	Cookies    []*http.Cookie
}

// VisitTracker 页面访问统计
type VisitTracker struct {
	repo     repository.VisitRepository
	cfg      config.TrackingConfig
	loc      *time.Location
	observer VisitObserver
	now      func() time.Time
}

// NewVisitTracker 创建访问统计服务
func NewVisitTracker(repo repository.VisitRepository, cfg config.TrackingConfig, observer VisitObserver) *VisitTracker {
	if len(cfg.ExcludedPrefixes) == 0 {
		cfg.ExcludedPrefixes = config.DefaultExcludedPrefixes
	}
	if strings.TrimSpace(cfg.VisitorCookie) == "" {
		cfg.VisitorCookie = constants.VisitorCookieDefault
	}
	if strings.TrimSpace(cfg.SessionCookiePrefix) == "" {
		cfg.SessionCookiePrefix = constants.SessionVisitedPrefix
	}
	if cfg.VisitorMaxAgeSeconds <= 0 {
		cfg.VisitorMaxAgeSeconds = constants.VisitorCookieMaxAgeSeconds
	}
	return &VisitTracker{
		repo:     repo,
		cfg:      cfg,
		loc:      cfg.Location(),
		observer: observer,
		now:      time.Now,
	}
}

// SetClock 替换时钟，测试使用
func (s *VisitTracker) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Enabled 是否开启统计
func (s *VisitTracker) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// AddExcludedPrefixes 追加排除前缀
func (s *VisitTracker) AddExcludedPrefixes(prefixes ...string) {
	for _, prefix := range prefixes {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			s.cfg.ExcludedPrefixes = append(s.cfg.ExcludedPrefixes, prefix)
		}
	}
}

// IsExcluded 路径是否命中排除前缀
func (s *VisitTracker) IsExcluded(path string) bool {
	for _, prefix := range s.cfg.ExcludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Today 统计时区下的当前日期
func (s *VisitTracker) Today() string {
	return s.now().In(s.loc).Format(constants.VisitDateLayout)
}

// SessionCookieName 当日会话标记 Cookie 名
func (s *VisitTracker) SessionCookieName(date string) string {
	return s.cfg.SessionCookiePrefix + date
}

// Track 判断并记录一次页面访问，错误只记录日志，不向调用方传播
func (s *VisitTracker) Track(ctx context.Context, req VisitRequest) (result TrackResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("visit_track_panic", "path", req.Path, "panic", r)
			result = s.finish(TrackResult{Outcome: constants.VisitOutcomeFailed})
		}
	}()
	if !s.Enabled() {
		return TrackResult{Outcome: constants.VisitOutcomeDisabled}
	}
	if s.IsExcluded(req.Path) {
		return s.finish(TrackResult{Outcome: constants.VisitOutcomeExcluded})
	}

	date := s.Today()
	sessionCookie := s.SessionCookieName(date)
	if readCookie(req.Cookies, sessionCookie) != "" {
		return s.finish(TrackResult{Outcome: constants.VisitOutcomeAlreadyCounted, Date: date})
	}

	visitorID, isNew := s.resolveVisitorID(req.Cookies)
	unique, err := s.record(ctx, date, visitorID, req)
	if err != nil {
		logger.Warnw("visit_track_failed",
			"path", req.Path,
			"visitor_id", visitorID,
			"date", date,
			"error", err,
		)
		return s.finish(TrackResult{Outcome: constants.VisitOutcomeFailed, Date: date, VisitorID: visitorID})
	}

	result = TrackResult{
		Outcome:    constants.VisitOutcomeRecorded,
		Date:       date,
		VisitorID:  visitorID,
		NewVisitor: isNew,
		Unique:     unique,
	}
	if isNew {
		result.Cookies = append(result.Cookies, &http.Cookie{
			Name:     s.cfg.VisitorCookie,
			Value:    visitorID,
			Path:     "/",
			MaxAge:   s.cfg.VisitorMaxAgeSeconds,
			HttpOnly: true,
			Secure:   s.cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	result.Cookies = append(result.Cookies, &http.Cookie{
		Name:     sessionCookie,
		Value:    "true",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return s.finish(result)
}

func (s *VisitTracker) finish(result TrackResult) TrackResult {
	if s.observer != nil {
		s.observer.ObserveVisit(result.Outcome)
	}
	return result
}

// resolveVisitorID 读取访客 Cookie，缺失、为空或超长时生成新的 UUID
func (s *VisitTracker) resolveVisitorID(cookies CookieReader) (string, bool) {
	value := strings.TrimSpace(readCookie(cookies, s.cfg.VisitorCookie))
	if value != "" && len(value) <= constants.VisitorIDMaxLength {
		return value, false
	}
	return uuid.NewString(), true
}

// record 写入访问记录并累加当日计数，返回是否为新访客
func (s *VisitTracker) record(ctx context.Context, date, visitorID string, req VisitRequest) (bool, error) {
	parsed := useragent.Parse(req.UserAgent)
	view := &models.PageView{
		URL:        truncateRunes(req.URL, constants.PageViewURLMaxLength),
		UserID:     req.UserID,
		IPAddress:  truncateRunes(req.IPAddress, 64),
		UserAgent:  req.UserAgent,
		Browser:    truncateRunes(parsed.Name, 64),
		OS:         truncateRunes(parsed.OS, 64),
		Device:     deviceType(&parsed),
		SessionKey: truncateRunes(req.SessionKey, constants.SessionKeyMaxLength),
		VisitorID:  visitorID,
	}

	unique := false
	err := s.repo.Transaction(ctx, func(repo repository.VisitRepository) error {
		exists, err := repo.ExistsByVisitorID(visitorID)
		if err != nil {
			return err
		}
		unique = !exists
		if err := repo.CreatePageView(view); err != nil {
			return err
		}
		if err := repo.EnsureDay(date); err != nil {
			return err
		}
		var uniqueDelta int64
		if unique {
			uniqueDelta = 1
		}
		return repo.IncrementDay(date, 1, uniqueDelta)
	})
	if err != nil {
		return false, err
	}
	return unique, nil
}

func readCookie(cookies CookieReader, name string) string {
	if cookies == nil {
		return ""
	}
	value, err := cookies.Cookie(name)
	if err != nil {
		return ""
	}
	return value
}

func deviceType(ua *useragent.UserAgent) string {
	switch {
	case ua == nil:
		return "unknown"
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}

func truncateRunes(value string, max int) string {
	if max <= 0 || utf8.RuneCountInString(value) <= max {
		return value
	}
	return string([]rune(value)[:max])
}
