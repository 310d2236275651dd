/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "cloudrunway",
	Short: "CloudRunway termination request service",
	Long: `CloudRunway termination request service.

Manages subscription contract termination requests: field and date rule
validation, attachment reconciliation and upload, and cached directory
lookups against the sales service cloud.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ./config.yaml)")
}
