package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema checks that the config has every section the embedded schema declares
// and that enum fields hold one of the allowed values
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	root := resolve(&schema, &schema)
	if root == nil || root.Properties == nil {
		return fmt.Errorf("embedded schema has no properties")
	}
	return verifyObject(&schema, root, configMap, "")
}

// verifyObject walks the schema properties and checks matching config values
func verifyObject(doc, s *jsonschema.Schema, values map[string]any, path string) error {
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		name, prop := pair.Key, resolve(doc, pair.Value)
		fullName := name
		if path != "" {
			fullName = path + "." + name
		}
		val, ok := values[name]
		if !ok {
			return fmt.Errorf("%s is missing", fullName)
		}
		if prop == nil {
			continue
		}
		if len(prop.Enum) > 0 && !inEnum(prop.Enum, val) {
			return fmt.Errorf("%s has invalid value %v", fullName, val)
		}
		if prop.Properties != nil {
			sub, isMap := val.(map[string]any)
			if !isMap {
				return fmt.Errorf("%s must be an object", fullName)
			}
			if err := verifyObject(doc, prop, sub, fullName); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolve follows a local $ref into the schema definitions
func resolve(doc, s *jsonschema.Schema) *jsonschema.Schema {
	const prefix = "#/$defs/"
	for i := 0; s != nil && s.Ref != "" && i < 10; i++ {
		if len(s.Ref) <= len(prefix) || s.Ref[:len(prefix)] != prefix {
			return s
		}
		s = doc.Definitions[s.Ref[len(prefix):]]
	}
	return s
}

func inEnum(enum []any, val any) bool {
	for _, e := range enum {
		if fmt.Sprint(e) == fmt.Sprint(val) {
			return true
		}
	}
	return false
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
