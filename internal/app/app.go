package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vladaframchuk/event-planning-app-sub001/internal/auth"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/cache"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/config"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/jobs"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/metrics"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/realtime"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/repo"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/service"
)

// App wires together the HTTP API, the realtime hub and the background
// workers. Start launches the non-HTTP parts; the caller owns the HTTP
// server itself.
type App struct {
	cfg    config.Config
	log    zerolog.Logger
	db     *pgxpool.Pool
	redis  *redis.Client
	router *gin.Engine

	hub     *realtime.Hub
	workers *jobs.WorkerPool
	cleanup *jobs.CleanupJob

	cancel context.CancelFunc
}

func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	db, err := newPostgres(cfg.PG.DSN)
	if err != nil {
		return nil, err
	}
	a.db = db

	rdb, err := newRedis(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}
	a.redis = rdb

	if err := runMigrations(cfg.PG.DSN, "./migrations"); err != nil {
		a.redis.Close()
		a.db.Close()
		return nil, err
	}

	if err := os.MkdirAll(cfg.Jobs.ExportDir, 0o755); err != nil {
		a.redis.Close()
		a.db.Close()
		return nil, fmt.Errorf("export dir: %w", err)
	}

	m := metrics.New()

	userRepo := repo.NewPGUserRepo(db)
	eventRepo := repo.NewPGEventRepo(db)
	inviteRepo := repo.NewPGInviteRepo(db)
	taskRepo := repo.NewPGTaskRepo(db)
	pollRepo := repo.NewPGPollRepo(db)
	chatRepo := repo.NewPGChatRepo(db)
	exportRepo := repo.NewPGExportRepo(db)

	planCache := cache.NewPlanCache(rdb, cfg.Redis.DefaultTTL.Duration())
	pub := realtime.NewRedisPublisher(rdb, log)
	a.hub = realtime.NewHub(rdb, log, m.WSConnections)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTTL.Duration())
	refresh := auth.NewRefreshStore(rdb, cfg.Auth.RefreshTTL.Duration())

	userSvc := service.NewUserService(userRepo)
	eventSvc := service.NewEventService(eventRepo, pub)
	inviteSvc := service.NewInviteService(inviteRepo, eventSvc, pub)
	taskSvc := service.NewTaskService(taskRepo, eventSvc, planCache, pub)
	pollSvc := service.NewPollService(pollRepo, eventSvc, planCache, pub)
	chatSvc := service.NewChatService(chatRepo, eventSvc, pub)

	queue := jobs.NewQueue(rdb)
	exportSvc := service.NewExportService(exportRepo, eventSvc, queue)

	// Inbound chat.send frames go through the same service path as the
	// REST endpoint, so persistence and broadcast stay identical.
	a.hub.OnChat = func(ctx context.Context, eventID, senderID int64, body string) error {
		_, err := chatSvc.Post(ctx, eventID, senderID, body)
		return err
	}

	exporter := jobs.NewExporter(exportRepo, eventRepo, taskRepo, pollRepo, cfg.Jobs.ExportDir, log)
	a.workers = jobs.NewWorkerPool(queue, exporter, cfg.Jobs.Workers, log, m.JobsProcessed)
	a.cleanup = jobs.NewCleanupJob(inviteRepo, exportRepo,
		cfg.Jobs.CleanupInterval.Duration(), cfg.Jobs.ExportTTL.Duration(), log, m.JobsProcessed)

	a.router = newRouter(cfg, log, m)
	setupRoutes(a.router, routeDeps{
		cfg:       cfg,
		log:       log,
		metrics:   m,
		tokens:    tokens,
		refresh:   refresh,
		hub:       a.hub,
		userSvc:   userSvc,
		eventSvc:  eventSvc,
		inviteSvc: inviteSvc,
		taskSvc:   taskSvc,
		pollSvc:   pollSvc,
		chatSvc:   chatSvc,
		exportSvc: exportSvc,
	})
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Start launches the realtime hub, the export workers and the cleanup
// loop. They run until Close.
func (a *App) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.hub.Run(ctx)
	a.workers.Start(ctx)
	go a.cleanup.Run(ctx)
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.cancel != nil {
		a.cancel()
		a.workers.Wait()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(dsn string, migrationsDir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newRouter(cfg config.Config, log zerolog.Logger, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(ginMode(cfg.App.Env))
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(m.GinMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))
	return r
}

func ginMode(env string) string {
	if env == "prod" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("http request")
	}
}
