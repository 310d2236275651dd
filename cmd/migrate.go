/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Srikar1995/cloudrunway-develop/internal/api"
	"github.com/Srikar1995/cloudrunway-develop/internal/config"
	"github.com/Srikar1995/cloudrunway-develop/internal/database"
)

// migrateCmd 执行数据库迁移
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := api.NewLoggerFromConfig(cfg.Log)

		db, err := database.Connect(cfg.Database, logger)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info("Database migration completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
