package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema.
// It checks required properties of every object reachable from the root definition.
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if err := checkRequired(&schema, &schema, configMap, ""); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// checkRequired walks the schema along the config values, resolving local $defs references
func checkRequired(root, s *jsonschema.Schema, value map[string]any, path string) error {
	s, err := resolve(root, s)
	if err != nil {
		return err
	}
	for _, name := range s.Required {
		if _, ok := value[name]; !ok {
			return fmt.Errorf("%s%s is required", path, name)
		}
	}
	if s.Properties == nil {
		return nil
	}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		nested, ok := value[pair.Key].(map[string]any)
		if !ok {
			continue
		}
		if err := checkRequired(root, pair.Value, nested, path+pair.Key+"."); err != nil {
			return err
		}
	}
	return nil
}

func resolve(root, s *jsonschema.Schema) (*jsonschema.Schema, error) {
	if s.Ref == "" {
		return s, nil
	}
	name, ok := strings.CutPrefix(s.Ref, "#/$defs/")
	if !ok {
		return nil, fmt.Errorf("unsupported schema reference %q", s.Ref)
	}
	def, ok := root.Definitions[name]
	if !ok {
		return nil, fmt.Errorf("schema definition %q not found", name)
	}
	return def, nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}
