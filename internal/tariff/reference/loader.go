package reference

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var bundleSchema string

const bundleSchemaURL = "https://tariff.schemas.local/reference/bundle.schema.json"

// Format is the serialization of a bundle.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromKey picks the decoder from a file or object key extension.
func FormatFromKey(key string) (Format, error) {
	switch strings.ToLower(path.Ext(key)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("cannot infer bundle format from %q", key)
	}
}

// Loader decodes bundles, validates them against the bundle JSON schema and
// rejects schema versions outside the supported range.
type Loader struct {
	schema     *jsonschema.Schema
	constraint *semver.Constraints
}

// NewLoader compiles the bundle schema. constraint is a semver range such as ">= 1.0.0, < 2.0.0".
func NewLoader(constraint string) (*Loader, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid schema version constraint %q: %w", constraint, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(bundleSchemaURL, strings.NewReader(bundleSchema)); err != nil {
		return nil, fmt.Errorf("bundle schema load failed: %w", err)
	}
	schema, err := compiler.Compile(bundleSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("bundle schema compile failed: %w", err)
	}
	return &Loader{schema: schema, constraint: c}, nil
}

// Decode parses and validates a bundle without indexing it.
func (l *Loader) Decode(data []byte, format Format) (*Bundle, error) {
	raw, err := toJSON(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	if err := l.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: schema validation failed: %w", ErrInvalidDataset, err)
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}

	v, err := semver.NewVersion(b.SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid schema_version %q: %w", ErrInvalidDataset, b.SchemaVersion, err)
	}
	if !l.constraint.Check(v) {
		return nil, fmt.Errorf("%w: schema_version %s is outside the supported range %s", ErrInvalidDataset, v, l.constraint)
	}
	return &b, nil
}

// Load decodes data and builds the Store. source names where data came from.
func (l *Loader) Load(data []byte, format Format, source string) (*Store, error) {
	b, err := l.Decode(data, format)
	if err != nil {
		return nil, err
	}
	return Build(b, source)
}

func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		doc, err := jsonCompatible(doc, "$")
		if err != nil {
			return nil, err
		}
		return json.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported bundle format %q", format)
	}
}

// jsonCompatible rewrites YAML-only shapes into values encoding/json accepts.
// Mapping keys must be strings; codes such as 0302 have to be quoted so YAML
// does not read them as numbers.
func jsonCompatible(v any, at string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			c, err := jsonCompatible(child, at+"."+k)
			if err != nil {
				return nil, err
			}
			t[k] = c
		}
		return t, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%s: mapping key %v must be a quoted string", at, k)
			}
			c, err := jsonCompatible(child, at+"."+key)
			if err != nil {
				return nil, err
			}
			out[key] = c
		}
		return out, nil
	case []any:
		for i, child := range t {
			c, err := jsonCompatible(child, fmt.Sprintf("%s[%d]", at, i))
			if err != nil {
				return nil, err
			}
			t[i] = c
		}
		return t, nil
	default:
		return v, nil
	}
}
