package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/axellelanca/coursecatalog/cmd"
	"github.com/axellelanca/coursecatalog/internal/api"
	"github.com/axellelanca/coursecatalog/internal/database"
	"github.com/axellelanca/coursecatalog/internal/logger"
	"github.com/axellelanca/coursecatalog/internal/metrics"
	"github.com/axellelanca/coursecatalog/internal/repository"
	"github.com/axellelanca/coursecatalog/internal/services"
)

// RunServerCmd starts the HTTP server of the catalog.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the catalog HTTP server",
	Long: `This command opens and migrates the database, builds the services,
configures the routes and serves HTTP until SIGINT or SIGTERM, then shuts
down gracefully.`,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		cfg, err := cmd.LoadConfig()
		if err != nil {
			return err
		}

		log := logger.New(cfg)
		defer log.Sync()

		if cfg.Admin.Token == "" {
			log.Warn("admin token is empty, the admin area is locked")
		}

		db, err := database.Open(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		courseRepo := repository.NewCourseRepository(db)
		clickRepo := repository.NewClickRepository(db)

		gin.SetMode(cfg.Server.Mode)
		router, err := api.NewRouter(api.Dependencies{
			Catalog:        services.NewCatalogService(courseRepo),
			Tracking:       services.NewTrackingService(courseRepo, clickRepo, log),
			Courses:        services.NewCourseService(courseRepo, log),
			Metrics:        metrics.New(),
			Log:            log,
			AdminToken:     cfg.Admin.Token,
			PageSize:       cfg.Catalog.PageSize,
			APIPageSize:    cfg.Catalog.APIPageSize,
			APIMaxPageSize: cfg.Catalog.APIMaxPageSize,
			HomeLimit:      cfg.Catalog.HomeLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to build router: %w", err)
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErr := make(chan error, 1)
		go func() {
			log.Info("server starting", zap.String("addr", srv.Addr), zap.String("base_url", cfg.Server.BaseURL))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-serverErr:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case sig := <-quit:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		log.Info("server stopped")
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
