package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/infrastructure/queue"
	"library-backend/pkg/cache"
	"library-backend/pkg/jwt"

	authorHandler "library-backend/internal/domains/author/handler"
	authorRepo "library-backend/internal/domains/author/repository"
	authorService "library-backend/internal/domains/author/service"
	bookHandler "library-backend/internal/domains/book/handler"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"
	copyHandler "library-backend/internal/domains/copy/handler"
	copyRepo "library-backend/internal/domains/copy/repository"
	copyService "library-backend/internal/domains/copy/service"
	editionHandler "library-backend/internal/domains/edition/handler"
	editionRepo "library-backend/internal/domains/edition/repository"
	editionService "library-backend/internal/domains/edition/service"
	loanHandler "library-backend/internal/domains/loan/handler"
	loanModel "library-backend/internal/domains/loan/model"
	loanRepo "library-backend/internal/domains/loan/repository"
	loanService "library-backend/internal/domains/loan/service"
	memberHandler "library-backend/internal/domains/member/handler"
	memberRepo "library-backend/internal/domains/member/repository"
	memberService "library-backend/internal/domains/member/service"
	reportHandler "library-backend/internal/domains/report/handler"
	reportRepo "library-backend/internal/domains/report/repository"
	reportService "library-backend/internal/domains/report/service"
	staffHandler "library-backend/internal/domains/staff/handler"
	staffRepo "library-backend/internal/domains/staff/repository"
	staffService "library-backend/internal/domains/staff/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph shared by the API, the
// worker and the admin CLI
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	Store      *database.Store
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// Queue is nil when Redis is disabled; async reconcile is then unavailable
	Queue *asynq.Client

	redis *infraCache.RedisClient

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	AuthorRepo  authorRepo.RepositoryInterface
	BookRepo    bookRepo.RepositoryInterface
	EditionRepo editionRepo.RepositoryInterface
	CopyRepo    copyRepo.RepositoryInterface
	MemberRepo  memberRepo.RepositoryInterface
	LoanRepo    loanRepo.RepositoryInterface
	ReportRepo  reportRepo.RepositoryInterface
	StaffRepo   staffRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER
	// ========================================
	AuthorService  authorService.ServiceInterface
	BookService    bookService.ServiceInterface
	EditionService editionService.ServiceInterface
	CopyService    copyService.ServiceInterface
	MemberService  memberService.ServiceInterface
	LoanService    loanService.ServiceInterface
	ReportService  reportService.ServiceInterface
	StaffService   staffService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	AuthorHandler  *authorHandler.AuthorHandler
	BookHandler    *bookHandler.BookHandler
	EditionHandler *editionHandler.EditionHandler
	CopyHandler    *copyHandler.CopyHandler
	MemberHandler  *memberHandler.MemberHandler
	LoanHandler    *loanHandler.LoanHandler
	AdminHandler   *loanHandler.AdminHandler
	ReportHandler  *reportHandler.ReportHandler
	StaffHandler   *staffHandler.StaffHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer loads configuration, connects the store and Redis, applies
// the schema and wires every domain
func NewContainer(ctx context.Context) (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, err := database.Open(connectCtx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.EnsureSchema(connectCtx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	var (
		appCache cache.Cache = cache.NewNoopCache()
		redis    *infraCache.RedisClient
		client   *asynq.Client
	)

	if cfg.Redis.Enabled {
		redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		if err := redis.Connect(connectCtx); err != nil {
			log.Warn().Err(err).Msg("⚠️  Redis unavailable, continuing without cache and queue")
			_ = redis.Close()
			redis = nil
		} else {
			appCache = infraCache.NewRedisCache(redis)
			client = asynq.NewClient(RedisConnOpt(cfg))
		}
	}

	c := New(cfg, store, appCache, client)
	c.redis = redis

	log.Info().Str("driver", dbConfig.Driver).Bool("cache", redis != nil).Msg("🎉 DI Container initialized")
	return c, nil
}

// New wires repositories, services and handlers over ready infrastructure.
// client may be nil
func New(cfg *config.Config, store *database.Store, c cache.Cache, client *asynq.Client) *Container {
	ct := &Container{
		Config:     cfg,
		Store:      store,
		Cache:      c,
		JWTManager: jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry),
		Queue:      client,
	}

	ct.initRepositories()
	ct.initServices()
	ct.initHandlers()
	return ct
}

// RedisConnOpt is the asynq connection shared by the client, worker and scheduler
func RedisConnOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Worker.RedisAddr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// ========================================
// INITIALIZATION HELPERS
// ========================================

func (c *Container) initRepositories() {
	db := c.Store.DB

	c.AuthorRepo = authorRepo.NewRepository(db, c.Cache)
	c.BookRepo = bookRepo.NewRepository(db, c.Cache)
	c.EditionRepo = editionRepo.NewRepository(db, c.Cache)
	c.CopyRepo = copyRepo.NewRepository(db)
	c.MemberRepo = memberRepo.NewRepository(db)
	c.LoanRepo = loanRepo.NewRepository(db)
	c.ReportRepo = reportRepo.NewRepository(c.Store)
	c.StaffRepo = staffRepo.NewRepository(db)
}

func (c *Container) initServices() {
	policy := loanModel.FinePolicy{
		DefaultDays: c.Config.Loan.DefaultDays,
		Daily:       c.Config.Loan.DailyFine,
		Max:         c.Config.Loan.MaxFine,
	}

	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.BookService = bookService.NewBookService(c.BookRepo, c.AuthorRepo)
	c.EditionService = editionService.NewEditionService(c.EditionRepo, c.BookRepo)
	c.CopyService = copyService.NewCopyService(c.CopyRepo, c.EditionRepo)
	c.MemberService = memberService.NewMemberService(c.MemberRepo)
	c.LoanService = loanService.NewLoanService(c.LoanRepo, c.MemberRepo, policy)
	c.ReportService = reportService.NewReportService(c.ReportRepo, c.LoanService, c.Cache, c.Config.Report.CacheTTL)
	c.StaffService = staffService.NewStaffService(c.StaffRepo, c.JWTManager)
}

func (c *Container) initHandlers() {
	// a nil *asynq.Client must not become a non-nil interface
	var enqueuer queue.Enqueuer
	if c.Queue != nil {
		enqueuer = c.Queue
	}

	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.EditionHandler = editionHandler.NewEditionHandler(c.EditionService)
	c.CopyHandler = copyHandler.NewCopyHandler(c.CopyService)
	c.MemberHandler = memberHandler.NewMemberHandler(c.MemberService)
	c.LoanHandler = loanHandler.NewLoanHandler(c.LoanService)
	c.AdminHandler = loanHandler.NewAdminHandler(c.LoanService, enqueuer)
	c.ReportHandler = reportHandler.NewReportHandler(c.ReportService)
	c.StaffHandler = staffHandler.NewStaffHandler(c.StaffService)
}

// ========================================
// CLEANUP
// ========================================

func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close queue client")
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close Redis")
		}
	}

	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close store")
		}
	}

	log.Info().Msg("✅ Container cleanup completed")
}
