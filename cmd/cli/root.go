package main

import (
	"fmt"

	"github.com/marcelsud/webhook-vault/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vaultctl",
	Short: "webhook-vault operator CLI",
	Long: `vaultctl runs maintenance tasks against the stores of a webhook-vault
deployment: audit schema migrations, retention purges, delete-log reports
and customer directory validation.

Settings are read from .env and the environment, like the API server.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(migrateCmd, purgeAuditCmd, deletionsCmd, validateCustomersCmd)
}

// loadConfig reads and validates the deployment settings
func loadConfig() (*config.Config, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
