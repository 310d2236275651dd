/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Srikar1995/cloudrunway-develop/internal/api"
	"github.com/Srikar1995/cloudrunway-develop/internal/config"
	"github.com/Srikar1995/cloudrunway-develop/internal/container"
	"github.com/Srikar1995/cloudrunway-develop/internal/database"
)

// serverCmd 启动 HTTP 服务
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the termination request API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := api.NewLoggerFromConfig(cfg.Log)

	db, err := database.ConnectWithRetry(cfg.Database, logger, 5)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	c := container.NewContainer(cfg, db, logger)
	go c.Hub.Run()

	// 配置文件热加载,目前只调整日志级别
	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, cfg, logger)
		if err != nil {
			logger.WithError(err).Warn("Config watcher unavailable")
		} else {
			watcher.OnReload(func(updated *config.Config) {
				next := api.NewLoggerFromConfig(updated.Log)
				logger.SetLevel(next.GetLevel())
			})
			watcher.Start()
			defer watcher.Stop()
		}
	}

	router := api.SetupRouter(cfg, c, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
