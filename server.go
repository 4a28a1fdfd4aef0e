package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"notekeep/config"
	"notekeep/handler"
	"notekeep/middleware"
	"notekeep/repository"
	"notekeep/services"
	"notekeep/usecase"
	"notekeep/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const uploadsMaxAge = 24 * time.Hour

const multipartOverhead = 1 << 20

// app holds the server's long-lived dependencies.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *sql.DB
	cache   services.NoteCache
	notes   *usecase.NotesService
	uploads *usecase.UploadService
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	db, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := repository.SetupSchema(ctx, db, cfg.Database.Driver); err != nil {
		db.Close()
		return nil, err
	}

	cache, err := newNoteCache(ctx, cfg.Cache)
	if err != nil {
		db.Close()
		return nil, err
	}

	notes := usecase.NewNotesService(repository.GetNotesRepo(db), logger)
	notes.Cache = cache
	notes.StrictMutations = cfg.StrictMutations
	if cfg.SanitizeHTML {
		notes.Sanitizer = services.NewUGCSanitizer()
	}

	uploads := usecase.NewUploadService(cfg.Uploads.Dir, cfg.Uploads.URLPrefix,
		cfg.Uploads.PublicBaseURL, cfg.Uploads.MaxBytes, logger)
	if err := uploads.EnsureDir(); err != nil {
		cache.Close()
		db.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		cache:   cache,
		notes:   notes,
		uploads: uploads,
	}, nil
}

func newNoteCache(ctx context.Context, cfg config.CacheConfig) (services.NoteCache, error) {
	switch cfg.Backend {
	case config.CacheMemory:
		return services.NewLRUNoteCache(cfg.Size)
	case config.CacheRedis:
		return services.NewRedisNoteCache(ctx, cfg.RedisURL)
	default:
		return services.NoopNoteCache{}, nil
	}
}

func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close note cache", zap.Error(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", zap.Error(err))
	}
}

func setupRouter(a *app) (*gin.Engine, error) {
	if err := utils.InitValidator(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(
		middleware.RequestTracingMiddleware(),
		middleware.LoggingMiddleware(a.logger),
		middleware.EnhancedRecoveryMiddleware(a.logger),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(a.cfg.CORSOrigins),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handler.NewHealthHandler(a.notes, a.cfg.Uploads.Dir, a.logger).Register(router)

	static := router.Group(a.uploads.URLPrefix, middleware.CacheControlMiddleware(uploadsMaxAge))
	static.StaticFS("/", gin.Dir(a.cfg.Uploads.Dir, false))

	// Multipart framing needs some room on top of the file itself.
	upload := router.Group("", middleware.RequestSizeLimiter(a.uploads.MaxBytes+multipartOverhead))
	handler.NewUploadHandler(a.uploads, a.logger).Register(upload)

	api := router.Group("", middleware.RequestSizeLimiter(a.cfg.MaxBodyBytes))
	handler.NewNoteHandler(a.notes, a.logger).Register(api)

	return router, nil
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, a *app) error {
	router, err := setupRouter(a)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
