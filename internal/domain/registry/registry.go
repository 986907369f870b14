// Package registry loads and validates the ordered list of tracked models.
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/aigi/internal/domain/model"
)

//go:embed schema.json
var schemaJSON string

var (
	printer = message.NewPrinter(language.English)
	schema  = mustCompileSchema(schemaJSON, "registry.schema.json")
)

func mustCompileSchema(raw, name string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}
	sch, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// Load reads a registry file. The format is chosen by extension:
// .yaml and .yml are YAML, anything else is JSON.
func Load(path string) ([]model.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Index: -1, Reason: fmt.Sprintf("read %s: %v", path, err)}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON validates and converts a JSON registry document.
func ParseJSON(data []byte) ([]model.Spec, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Index: -1, Reason: fmt.Sprintf("parse json: %v", err)}
	}
	return Parse(doc)
}

// ParseYAML validates and converts a YAML registry document.
func ParseYAML(data []byte) ([]model.Spec, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Index: -1, Reason: fmt.Sprintf("parse yaml: %v", err)}
	}
	return Parse(jsonCompatible(doc))
}

// Parse validates a decoded document and returns the entries in document
// order. Fields other than name and tier are carried through untouched.
func Parse(doc any) ([]model.Spec, error) {
	if err := validateSchema(doc); err != nil {
		return nil, err
	}
	items, _ := doc.([]any)
	specs := make([]model.Spec, 0, len(items))
	seen := make(map[string]int, len(items))
	for i, it := range items {
		obj, _ := it.(map[string]any)
		name, _ := obj["name"].(string)
		tier := model.Tier(obj["tier"].(string))
		if !tier.Valid() {
			return nil, &Error{Index: i, Name: name, Reason: fmt.Sprintf("tier %q is not one of A, B, C", tier)}
		}
		if first, dup := seen[name]; dup {
			return nil, &Error{Index: i, Name: name, Reason: fmt.Sprintf("duplicate name, first defined at entry %d", first)}
		}
		seen[name] = i

		var attrs map[string]any
		for k, v := range obj {
			if k == "name" || k == "tier" {
				continue
			}
			if attrs == nil {
				attrs = make(map[string]any)
			}
			attrs[k] = v
		}
		specs = append(specs, model.Spec{Name: name, Tier: tier, Attributes: attrs})
	}
	return specs, nil
}

func validateSchema(doc any) error {
	err := schema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &Error{Index: -1, Reason: fmt.Sprintf("schema: %v", err)}
	}
	leaf := firstLeaf(ve)
	idx := -1
	if len(leaf.InstanceLocation) > 0 {
		if n, convErr := strconv.Atoi(leaf.InstanceLocation[0]); convErr == nil {
			idx = n
		}
	}
	loc := "/" + strings.Join(leaf.InstanceLocation, "/")
	return &Error{
		Index:  idx,
		Name:   entryName(doc, idx),
		Reason: fmt.Sprintf("%s: %s", loc, leaf.ErrorKind.LocalizedString(printer)),
	}
}

func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

func entryName(doc any, idx int) string {
	items, ok := doc.([]any)
	if !ok || idx < 0 || idx >= len(items) {
		return ""
	}
	obj, _ := items[idx].(map[string]any)
	name, _ := obj["name"].(string)
	return name
}

// jsonCompatible rewrites YAML-decoded values into the shapes the JSON
// decoder would produce so schema validation sees one representation.
func jsonCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			out[k] = jsonCompatible(v2)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			out[fmt.Sprint(k)] = jsonCompatible(v2)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v2 := range val {
			out[i] = jsonCompatible(v2)
		}
		return out
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	default:
		return val
	}
}
