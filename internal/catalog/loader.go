// Package catalog loads the grocery store's shelf listing from a JSON
// config validated against a JSON schema. The catalog is fixed for the
// lifetime of the process; stores copy it on first OpenInventory.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/osse101/TownCommerce_Go/internal/domain"
	"github.com/osse101/TownCommerce_Go/internal/validation"
)

// Sentinel errors for the catalog loader
var (
	ErrInvalidConfig = errors.New("invalid catalog configuration")
	ErrDuplicateName = errors.New("duplicate item name")
)

// SchemaPath is the JSON schema the catalog file is validated against
const SchemaPath = "configs/schemas/catalog.schema.json"

// Config represents the JSON configuration for the store catalog
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Items []Def `json:"items"`
}

// Def represents a single catalog entry in the JSON
type Def struct {
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// Loader handles loading and validating the catalog configuration
type Loader interface {
	Load(path string) (*Config, error)
	Validate(config *Config) error
}

type catalogLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &catalogLoader{
		schemaValidator: validation.NewSchemaValidator(),
	}
}

// Load reads and parses a catalog JSON file
func (l *catalogLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	// Validate against schema first
	if err := l.schemaValidator.ValidateBytes(data, SchemaPath); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return &config, nil
}

// Validate checks the catalog configuration for errors the schema cannot
// express, like duplicate names.
func (l *catalogLoader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if len(config.Items) == 0 {
		return fmt.Errorf("%w: no items defined", ErrInvalidConfig)
	}

	names := make(map[string]bool, len(config.Items))
	for i := range config.Items {
		item := &config.Items[i]
		if item.Name == "" {
			return fmt.Errorf("%w: item at index %d has empty name", ErrInvalidConfig, i)
		}
		if names[item.Name] {
			return fmt.Errorf("%w: '%s'", ErrDuplicateName, item.Name)
		}
		names[item.Name] = true
		if item.Price < 0 {
			return fmt.Errorf("%w: item '%s' has negative price", ErrInvalidConfig, item.Name)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("%w: item '%s' has negative quantity", ErrInvalidConfig, item.Name)
		}
	}

	return nil
}

// Fixed is an immutable catalog backed by a loaded config. It satisfies the
// grocery store's Catalog dependency.
type Fixed struct {
	items []domain.GroceryItem
}

// FromConfig builds a Fixed catalog from a validated config
func FromConfig(config *Config) *Fixed {
	items := make([]domain.GroceryItem, 0, len(config.Items))
	for _, def := range config.Items {
		items = append(items, domain.GroceryItem{
			Name:     def.Name,
			Price:    def.Price,
			Quantity: def.Quantity,
		})
	}
	return &Fixed{items: items}
}

// Items returns a copy of the catalog entries
func (f *Fixed) Items() []domain.GroceryItem {
	out := make([]domain.GroceryItem, len(f.items))
	copy(out, f.items)
	return out
}
