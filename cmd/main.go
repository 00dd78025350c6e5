package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"logviewer-backend/config"
	_ "logviewer-backend/docs"
	"logviewer-backend/internal/controller"
	"logviewer-backend/internal/elasticsearch"
	"logviewer-backend/internal/kafka"
	"logviewer-backend/internal/logger"
	"logviewer-backend/internal/logstore"
	"logviewer-backend/internal/middleware"
	"logviewer-backend/internal/query"
	"logviewer-backend/internal/scheduler"
	"logviewer-backend/internal/service"
)

// @title           Log Viewer API
// @version         1.0
// @description     Append structured log entries to a JSON document and query them with filters.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:4000
// @BasePath  /
// @schemes   http https

// @tag.name         logs
// @tag.description  Append and query structured log entries

// @tag.name         health
// @tag.description  API health check operations

func main() {
	app := fx.New(
		// Core Dependencies
		fx.Provide(
			NewConfig,
		),
		// Infrastructure Dependencies
		fx.Provide(
			NewGinEngine,
			NewLogStore,
			query.NewEngine,
			kafka.NewKafkaLogProducer,
			elasticsearch.NewElasticLogIndexer,
			service.NewLogQueryService,
			service.NewLogIngestService,
			service.NewSnapshotService,
			controller.NewLogController,
		),
		fx.Invoke(
			InitLogStore,
			RegisterAPIRoutes,
			RegisterScheduler,
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute) // ES connect retries can take up to 90s
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}
	log.Info().Msg("Exiting.")
}

func NewConfig() (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg)
	return cfg, nil
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(), controller.Recovery(cfg.Server.IsDevelopment()))

	r.Use(cors.New(corsConfig(cfg.Server.CORSAllowedOrigins)))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.NoRoute(controller.NotFound)

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	// Wildcard origins cannot be combined with credentials.
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func NewLogStore(cfg *config.Config) logstore.Store {
	return logstore.NewFileLogStore(afero.NewOsFs(), cfg.LogStore.FilePath)
}

// --- Invoker Functions ---

// InitLogStore creates the document before the HTTP server accepts requests.
func InitLogStore(lc fx.Lifecycle, store logstore.Store) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.EnsureInitialized(ctx); err != nil {
				return err
			}
			log.Info().Str("file", store.Path()).Msg("Log store ready")
			return nil
		},
	})
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	logController *controller.LogController,
) {
	controller.RegisterLogRoutes(router, logController)
	controller.RegisterHealthRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

func RegisterScheduler(lc fx.Lifecycle, cfg *config.Config, snapshotSvc service.SnapshotService) (*cron.Cron, error) {
	return scheduler.NewScheduler(lc, cfg, snapshotSvc)
}
