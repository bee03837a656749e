package main

import (
	"fmt"
	"strings"

	"github.com/marcelsud/webhook-vault/config"
	"github.com/marcelsud/webhook-vault/customer"
	"github.com/spf13/cobra"
)

var validateCustomersCmd = &cobra.Command{
	Use:   "validate-customers [file]",
	Short: "Validate a customer directory file",
	Long:  "Parse and validate a customer directory. Without an argument CUSTOMERS_FILE is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := customersFile(args)
		if err != nil {
			return err
		}
		directory, err := customer.Load(file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d customer(s), %d outlet(s)\n", file, directory.Len(), directory.OutletCount())
		for _, c := range directory.List() {
			fmt.Fprintf(out, "  %-24s %-6s %s\n", c.ID, c.Format, strings.Join(c.Outlets, ","))
		}
		return nil
	},
}

func customersFile(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return "", err
	}
	return cfg.CustomersFile, nil
}
