package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/marcelsud/webhook-vault/audit"
	"github.com/marcelsud/webhook-vault/config"
	"github.com/marcelsud/webhook-vault/internal/backend"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the audit schema migrations",
	Long:  "Apply pending migrations to the PostgreSQL audit store. Redis needs no schema.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.AuditBackend != config.AuditBackendPostgres {
			fmt.Fprintf(cmd.OutOrStdout(), "AUDIT_BACKEND=%s has no schema, nothing to do\n", cfg.AuditBackend)
			return nil
		}
		// OpenAudit migrates before returning
		store, err := backend.OpenAudit(cfg)
		if err != nil {
			return err
		}
		defer store.Close(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "audit schema is up to date")
		return nil
	},
}

var purgeAuditCmd = &cobra.Command{
	Use:   "purge-audit",
	Short: "Run one retention pass",
	Long: `Remove audit entries older than 30 days and delete-log entries older
than 90 days. Redis expires entries on its own and is left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := backend.OpenAudit(cfg)
		if err != nil {
			return err
		}
		defer store.Close(cmd.Context())

		purger, ok := store.(audit.Purger)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "AUDIT_BACKEND=%s expires entries natively, nothing to purge\n", cfg.AuditBackend)
			return nil
		}
		audits, deletions, err := purger.Purge(cmd.Context(), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("purging audit store: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d audit entries and %d delete-log entries\n", audits, deletions)
		return nil
	},
}

var deletionsCmd = &cobra.Command{
	Use:   "deletions",
	Short: "List the delete log of one day",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		day, err := parseDay(date, time.Now())
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := backend.OpenAudit(cfg)
		if err != nil {
			return err
		}
		defer store.Close(cmd.Context())

		return printDeletions(cmd.Context(), cmd, store, day)
	},
}

func init() {
	deletionsCmd.Flags().String("date", "", "UTC day to report, YYYY-MM-DD (default today)")
}

// parseDay reads an optional YYYY-MM-DD value, defaulting to the UTC day of now
func parseDay(date string, now time.Time) (time.Time, error) {
	if date == "" {
		return now.UTC().Truncate(24 * time.Hour), nil
	}
	day, err := time.Parse(audit.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
	}
	return day, nil
}

func printDeletions(ctx context.Context, cmd *cobra.Command, reader audit.DeletionReader, day time.Time) error {
	entries, err := reader.Deletions(ctx, day)
	if err != nil {
		return fmt.Errorf("reading delete log: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no deletions on %s\n", day.Format(audit.DateLayout))
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tWEBHOOK\tKEY\tSOURCE IP")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp.Format(time.RFC3339), e.WebhookID, e.DeletedKey, e.SourceIP)
	}
	return tw.Flush()
}

