package registry

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// schemaReflector produces JSON Schema documents from Go struct types. A
// single shared instance avoids re-parsing struct tags on every
// registration.
var schemaReflector = &jsonschema.Reflector{
	DoNotReference:             true,
	ExpandedStruct:             false,
	RequiredFromJSONSchemaTags: false,
}

// inferSchema derives a JSON Schema object from a parameter struct's
// exported fields via invopop/jsonschema, then flattens it into the plain
// {type, properties, required} shape the rest of the runtime expects —
// adapters forward this map essentially unchanged (OpenAI as "parameters",
// Anthropic renamed to "input_schema").
//
// The resulting property types follow the mapping: string → "string",
// integer → "integer", floating → "number", boolean → "boolean",
// ordered-sequence → "array", mapping → "object", anything-else →
// "string" (lossy, and invopop/jsonschema's own fallback for kinds it
// cannot reflect). A pointer field ("T or absent") is reflected as an
// optional property of type T, never appearing in required. A declared
// default (`jsonschema:"default=..."`) passes through as the property's
// "default" keyword.
func inferSchema(argsType reflect.Type) map[string]any {
	for argsType.Kind() == reflect.Ptr {
		argsType = argsType.Elem()
	}
	if argsType.Kind() != reflect.Struct {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}

	schema := schemaReflector.ReflectFromType(argsType)

	properties := map[string]any{}
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		prop := map[string]any{"type": coerceType(pair.Value.Type)}
		if pair.Value.Description != "" {
			prop["description"] = pair.Value.Description
		}
		if pair.Value.Default != nil {
			prop["default"] = pair.Value.Default
		}
		properties[pair.Key] = prop
	}

	result := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(schema.Required) > 0 {
		result["required"] = schema.Required
	}
	return result
}

// coerceType maps invopop/jsonschema's type vocabulary (which already
// matches JSON Schema's own: "string", "integer", "number", "boolean",
// "array", "object", "null") onto the mapping's fallback rule: anything it
// could not classify becomes "string".
func coerceType(t string) string {
	switch t {
	case "string", "integer", "number", "boolean", "array", "object":
		return t
	default:
		return "string"
	}
}
