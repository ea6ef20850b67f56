// Package schemagen produces JSON schemas for connector configuration
// structs, driven by `jsonschema:` struct tags.
package schemagen

import (
	"reflect"
	"strconv"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects a configuration struct into a JSON schema
// suitable for rendering a configuration form.
func GenerateSchema(title string, configObject interface{}) *jsonschema.Schema {
	// The library's default output is a top-level $ref into a
	// definitions table, which form-rendering code handles poorly;
	// inline everything instead.
	var reflector = jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	var schema = reflector.ReflectFromType(reflect.TypeOf(configObject))
	schema.AdditionalProperties = nil // Additional properties stay permitted on the root object.
	schema.Definitions = nil          // With no references these are just noise.
	schema.Title = title
	walkSchema(schema, fixFlagBools("secret", "advanced", "multiline"), fixOrderingStrings)
	return schema
}

// walkSchema invokes each visit function on every property of the
// root schema, recursing through sub-schemas. Visits modify the
// schema in place.
func walkSchema(root *jsonschema.Schema, visits ...func(t *jsonschema.Schema)) {
	if root.Properties == nil {
		return
	}
	for pair := root.Properties.Oldest(); pair != nil; pair = pair.Next() {
		for _, visit := range visits {
			visit(pair.Value)
		}
		walkSchema(pair.Value, visits...)
	}
}

// fixFlagBools rewrites the string values of flag annotations like
// `secret=true` into real booleans, since struct tags can only carry
// strings.
func fixFlagBools(flagKeys ...string) func(t *jsonschema.Schema) {
	return func(t *jsonschema.Schema) {
		for key, val := range t.Extras {
			for _, flag := range flagKeys {
				if key != flag {
					continue
				} else if val == "true" {
					t.Extras[key] = true
				} else if val == "false" {
					t.Extras[key] = false
				}
			}
		}
	}
}

// fixOrderingStrings rewrites integer-looking `order=N` annotations
// into real integers so that consumers can sort on them.
func fixOrderingStrings(t *jsonschema.Schema) {
	for key, val := range t.Extras {
		if key != "order" {
			continue
		}
		if str, ok := val.(string); ok {
			if converted, err := strconv.Atoi(str); err == nil {
				t.Extras[key] = converted
			}
		}
	}
}
