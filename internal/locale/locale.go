// Package locale supplies human-readable labels as a pure key -> string
// lookup over YAML catalogs.
package locale

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalogs/en.yml
var embeddedEN []byte

// Catalog maps message keys to display strings.
type Catalog struct {
	messages map[string]string
}

// Default returns the built-in English catalog.
func Default() *Catalog {
	c, err := parse(embeddedEN)
	if err != nil {
		// the embedded catalog is checked at build time; an empty catalog
		// still answers every lookup via fallbacks
		return &Catalog{messages: make(map[string]string)}
	}

	return c
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	return parse(data)
}

// Get returns the message for key, or fallback when the key is unknown.
func (c *Catalog) Get(key, fallback string) string {
	if s, ok := c.messages[key]; ok && s != "" {
		return s
	}

	return fallback
}

func parse(data []byte) (*Catalog, error) {
	m := make(map[string]string)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	return &Catalog{messages: m}, nil
}
