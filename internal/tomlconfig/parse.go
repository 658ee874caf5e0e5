package tomlconfig

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

var validate = validator.New()

// Parse decodes raw TOML bytes into a Document and runs struct-tag
// validation over the fields that are unconditionally required
// regardless of a component's Type (spec.md §7 kind 1: schema
// violations). Per-kind required/optional checks happen later in
// Build, since go-playground/validator's struct tags can't express
// "required only when Type == X" across this many variants cleanly.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tomlconfig: parse error: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("tomlconfig: validation error: %w", err)
	}
	for tag, c := range doc.Components {
		if err := validate.Struct(&c); err != nil {
			return nil, fmt.Errorf("tomlconfig: component %q: %w", tag, err)
		}
	}
	return &doc, nil
}
