package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// format decodes a document into generic Go values and encodes a Document.
type format struct {
	name   string
	decode func(data []byte) (interface{}, error)
	encode func(doc Document) ([]byte, error)
}

var (
	jsonFormat = format{
		name: "json",
		decode: func(data []byte) (interface{}, error) {
			var v interface{}
			if err := json.Unmarshal(data, &v); err != nil {
				return nil, fmt.Errorf("error parsing JSON: %w", err)
			}
			return v, nil
		},
		encode: func(doc Document) ([]byte, error) {
			data, err := json.MarshalIndent(doc, "", "    ")
			if err != nil {
				return nil, err
			}
			return append(data, '\n'), nil
		},
	}

	yamlFormat = format{
		name: "yaml",
		decode: func(data []byte) (interface{}, error) {
			var v interface{}
			if err := yaml.Unmarshal(data, &v); err != nil {
				return nil, fmt.Errorf("error parsing YAML: %w", err)
			}
			return normalize(v), nil
		},
		encode: func(doc Document) ([]byte, error) {
			return yaml.Marshal(doc)
		},
	}

	tomlFormat = format{
		name: "toml",
		decode: func(data []byte) (interface{}, error) {
			var v map[string]interface{}
			if err := toml.Unmarshal(data, &v); err != nil {
				return nil, fmt.Errorf("error parsing TOML: %w", err)
			}
			return v, nil
		},
		encode: func(doc Document) ([]byte, error) {
			return toml.Marshal(doc)
		},
	}
)

// formatFor picks the document format from the file extension. JSON is the default.
func formatFor(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlFormat
	case ".toml":
		return tomlFormat
	default:
		return jsonFormat
	}
}

// normalize turns YAML mappings with non-string keys into string-keyed maps
// so the value can be handed to the JSON schema validator.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []interface{}:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
