package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/webhook-vault/customer"
)

/* validate-customers - Standalone CLI tool to validate customers.yaml
 * Usage: go run cmd/validate-customers/main.go [customers.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	customersFile := "customers.yaml"
	if len(os.Args) > 1 {
		customersFile = os.Args[1]
	}

	fmt.Printf("Validating customers file: %s\n", customersFile)
	fmt.Println(strings.Repeat("-", 50))

	directory, err := customer.Load(customersFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	customers := directory.List()
	fmt.Printf("VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d customer(s), %d outlet alias(es):\n", directory.Len(), directory.OutletCount())

	for i, c := range customers {
		fmt.Printf("\n%d. Customer: %s\n", i+1, c.ID)
		fmt.Printf("   Format:  %s\n", c.Format)
		if len(c.Outlets) > 0 {
			fmt.Printf("   Outlets: %s\n", strings.Join(c.Outlets, ", "))
		}
	}

	fmt.Printf("\nAll customers are valid!\n")
	os.Exit(0)
}
