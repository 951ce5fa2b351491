package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/satomiya/keikocho/internal/config"
	"github.com/satomiya/keikocho/internal/database"
	"github.com/satomiya/keikocho/internal/handler"
	"github.com/satomiya/keikocho/internal/logger"
	"github.com/satomiya/keikocho/internal/middleware"
	"github.com/satomiya/keikocho/internal/queue"
	"github.com/satomiya/keikocho/internal/repository"
	"github.com/satomiya/keikocho/internal/router"
	"github.com/satomiya/keikocho/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "keikocho",
		Short: "Tea ceremony practice journal API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(consumerCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			log, err := logger.New(cfg.Env, cfg.LogPath)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := database.EnsureSchema(ctx, db, cfg.OwnerUserID); err != nil {
				return err
			}

			// Redis is optional: without it the server still runs, just
			// without rate limiting and response caching.
			rdb := config.NewRedisClient()
			if rdb == nil {
				log.Warn().Msg("redis unavailable, rate limiting and response cache are off")
			}

			lessons := repository.NewLessonRepo(db)
			entries := repository.NewRoleEntryRepo(db)
			items := repository.NewItemRepo(db)
			events := service.NewActivityPublisher(cfg.EventsEnabled, log)

			// The consumer also runs standalone via the consumer
			// subcommand; embedding it here keeps single-process
			// deployments to one binary and one unit file.
			if cfg.EventsEnabled {
				go func() {
					if err := queue.StartActivityConsumer(log); err != nil {
						log.Error().Err(err).Msg("activity consumer stopped")
					}
				}()
			}

			e := echo.New()
			e.HideBanner = true

			e.Use(middleware.RequestID())
			e.Use(middleware.RequestLogger(log))
			e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
				AllowOrigins:     cfg.CORSOrigins,
				AllowCredentials: true,
			}))
			e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb, log))
			e.Use(middleware.NewResponseCache(config.LoadCacheConfig(), rdb).Middleware())

			router.Register(e, router.Handlers{
				Health:  handler.NewHealthHandler(db),
				Lessons: handler.NewLessonHandler(lessons, events, cfg.OwnerUserID),
				Entries: handler.NewRoleEntryHandler(lessons, entries, events, cfg.OwnerUserID),
				Items:   handler.NewItemHandler(lessons, entries, items, events, cfg.OwnerUserID),
				Search:  handler.NewSearchHandler(items, cfg.OwnerUserID),
			})

			addr := ":" + cfg.Port
			log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
			return e.Start(addr)
		},
	}
}

func consumerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consumer",
		Short: "Run the activity feed consumer",
		Long:  "Consumes lesson activity events from RabbitMQ and appends them to logs/activity.log.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			log, err := logger.New(os.Getenv("APP_ENV"), os.Getenv("LOG_PATH"))
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			log.Info().Str("queue", queue.ActivityQueueName).Msg("activity consumer starting")
			return queue.StartActivityConsumer(log)
		},
	}
}
