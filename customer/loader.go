package customer

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

/* The directory file is YAML (JSON is accepted too, being a YAML subset):
 *
 *   customers:
 *     mpl-zlin:
 *       format: csv
 *       outlets: [zlin-north, zlin-south]
 */

// File represents the structure of customers.yaml
type File struct {
	Customers map[string]Entry `yaml:"customers" validate:"required,min=1,dive"`
}

// Entry represents a single customer in the file
type Entry struct {
	Format  string   `yaml:"format" validate:"required"`
	Outlets []string `yaml:"outlets" validate:"unique,dive,required"`
}

// Load reads, parses and validates a customer directory file
func Load(filePath string) (*Directory, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading customers file: %w", err)
	}
	return Parse(data)
}

// Parse builds a directory from the raw file contents
func Parse(data []byte) (*Directory, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing customers YAML: %w", err)
	}
	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("validating customers file: %w", err)
	}

	customers := make([]Customer, 0, len(file.Customers))
	for id, entry := range file.Customers {
		format, err := ParseFormat(entry.Format)
		if err != nil {
			return nil, fmt.Errorf("validating customer %s: %w", id, err)
		}
		customers = append(customers, Customer{
			ID:      id,
			Format:  format,
			Outlets: entry.Outlets,
		})
	}

	d, err := NewDirectory(customers)
	if err != nil {
		return nil, fmt.Errorf("validating customers: %w", err)
	}
	return d, nil
}
