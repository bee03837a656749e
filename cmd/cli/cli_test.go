package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcelsud/webhook-vault/audit"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deletionsFunc func(ctx context.Context, day time.Time) ([]audit.DeleteEntry, error)

func (f deletionsFunc) Deletions(ctx context.Context, day time.Time) ([]audit.DeleteEntry, error) {
	return f(ctx, day)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "purge-audit", "deletions", "validate-customers"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestValidateCustomers(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		file := filepath.Join(dir, "customers.yaml")
		require.NoError(t, os.WriteFile(file, []byte(`
customers:
  mpl-zlin:
    format: csv
    outlets: [zlin-north, zlin-south]
  acme:
    format: all
`), 0o600))

		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"validate-customers", file})
		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, out.String(), "2 customer(s), 2 outlet(s)")
		assert.Contains(t, out.String(), "zlin-north,zlin-south")
	})

	t.Run("duplicate outlet", func(t *testing.T) {
		file := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(file, []byte(`
customers:
  a:
    format: json
    outlets: [shared]
  b:
    format: xml
    outlets: [shared]
`), 0o600))

		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"validate-customers", file})
		err := rootCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `outlet "shared"`)
	})
}

func TestParseDay(t *testing.T) {
	now := time.Date(2026, 10, 15, 17, 4, 0, 0, time.UTC)

	day, err := parseDay("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), day)

	day, err = parseDay("2026-09-01", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), day)

	_, err = parseDay("01/09/2026", now)
	assert.ErrorContains(t, err, "invalid --date")
}

func TestPrintDeletions(t *testing.T) {
	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	t.Run("rows", func(t *testing.T) {
		reader := deletionsFunc(func(_ context.Context, d time.Time) ([]audit.DeleteEntry, error) {
			assert.Equal(t, day, d)
			return []audit.DeleteEntry{{
				Timestamp:  day.Add(time.Hour),
				WebhookID:  "0b9d3c7e-6a43-4d8e-9c1f-2f3f5d0e8a11",
				DeletedKey: "esl/acme/2026-10-14/0b9d3c7e-6a43-4d8e-9c1f-2f3f5d0e8a11.json",
				SourceIP:   "203.0.113.5",
			}}, nil
		})
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&out)
		require.NoError(t, printDeletions(context.Background(), cmd, reader, day))
		assert.Contains(t, out.String(), "WEBHOOK")
		assert.Contains(t, out.String(), "esl/acme/2026-10-14/")
		assert.Contains(t, out.String(), "203.0.113.5")
	})

	t.Run("empty", func(t *testing.T) {
		reader := deletionsFunc(func(context.Context, time.Time) ([]audit.DeleteEntry, error) { return nil, nil })
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&out)
		require.NoError(t, printDeletions(context.Background(), cmd, reader, day))
		assert.Equal(t, "no deletions on 2026-10-15\n", out.String())
	})

	t.Run("store error", func(t *testing.T) {
		reader := deletionsFunc(func(context.Context, time.Time) ([]audit.DeleteEntry, error) {
			return nil, errors.New("timeout")
		})
		err := printDeletions(context.Background(), &cobra.Command{}, reader, day)
		assert.ErrorContains(t, err, "reading delete log")
	})
}
