package provider

import (
	"github.com/palmapernia/tp-django/internal/authz"
	"github.com/palmapernia/tp-django/internal/cache"
	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/logger"
	"github.com/palmapernia/tp-django/internal/metrics"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/queue"
	"github.com/palmapernia/tp-django/internal/repository"
	"github.com/palmapernia/tp-django/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Metrics     *metrics.Registry

	// Repositories
	UserRepo         repository.UserRepository
	UserLoginLogRepo repository.UserLoginLogRepository
	VisitRepo        repository.VisitRepository
	ArticleRepo      repository.ArticleRepository
	CommentRepo      repository.CommentRepository
	QuestionRepo     repository.QuestionRepository
	ChoiceRepo       repository.ChoiceRepository
	DashboardRepo    repository.DashboardRepository

	// Services
	AuthzService        *authz.Service
	UserAuthService     *service.UserAuthService
	UserLoginLogService *service.UserLoginLogService
	UserAdminService    *service.UserAdminService
	VisitTracker        *service.VisitTracker
	VisitAdminService   *service.VisitAdminService
	DashboardService    *service.DashboardService
	ArticleService      *service.ArticleService
	CommentService      *service.CommentService
	PollService         *service.PollService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	if cfg.Metrics.Enabled {
		c.Metrics = metrics.New()
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
	c.VisitRepo = repository.NewVisitRepository(db)
	c.ArticleRepo = repository.NewArticleRepository(db)
	c.CommentRepo = repository.NewCommentRepository(db)
	c.QuestionRepo = repository.NewQuestionRepository(db)
	c.ChoiceRepo = repository.NewChoiceRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	trackerLocation := c.Config.Tracking.Location()
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
	c.UserAdminService = service.NewUserAdminService(c.UserRepo, c.AuthzService)
	c.VisitTracker = service.NewVisitTracker(c.VisitRepo, c.Config.Tracking, c.Metrics)
	c.VisitTracker.AddExcludedPrefixes("/health")
	if c.Config.Metrics.Enabled {
		c.VisitTracker.AddExcludedPrefixes(c.Config.Metrics.Path)
	}
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, c.VisitRepo, c.Config.Dashboard, trackerLocation)
	c.VisitAdminService = service.NewVisitAdminService(c.VisitRepo, c.DashboardService, c.QueueClient, c.Metrics)
	c.ArticleService = service.NewArticleService(c.ArticleRepo)
	c.CommentService = service.NewCommentService(c.CommentRepo, c.ArticleRepo)
	c.PollService = service.NewPollService(c.QuestionRepo, c.ChoiceRepo, c.Metrics)
}
