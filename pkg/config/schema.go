package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrSchemaViolation is returned when a configuration file does not match the schema.
var ErrSchemaViolation = errors.New("configuration does not match schema")

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema configuration files are validated against.
func Schema() []byte {
	return schemaJSON
}

// ValidateSchema checks raw YAML configuration against the embedded schema.
// Empty documents are valid.
func ValidateSchema(raw []byte) error {
	var doc any

	err := yaml.Unmarshal(raw, &doc)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if doc == nil {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(problems, "; "))
}
