package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "courier-sync.com/courier-sync/internal/configs"
	httpapi "courier-sync.com/courier-sync/internal/http"
	repository "courier-sync.com/courier-sync/internal/repositories"
	"courier-sync.com/courier-sync/internal/roster"
	"courier-sync.com/courier-sync/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the courier status API and the overdue task sweeper",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		redisClient := config.NewRedisClient(cfg.RedisAddr)
		defer redisClient.Close()

		database := config.New(cfg.DatabaseDSN)

		taskRepo := repository.NewTaskRepository(database)
		statusStore := roster.NewRedisStatusStore(redisClient)

		statusService := services.NewStatusService(statusStore, taskRepo)
		taskService := services.NewTaskService(taskRepo, statusService)

		sweeper := services.NewOverdueSweeper(taskRepo, time.Duration(cfg.SweepIntervalSeconds)*time.Second)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e := echo.New()
		handler := httpapi.NewHandler(statusService, taskService)
		httpapi.Register(e, handler, cfg.APIToken, cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		echoCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(echoCtx)
		sweeper.Shutdown()

		log.Println("HTTP server and overdue sweeper shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
