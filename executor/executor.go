// Package executor implements the tool executor: it looks up a registered
// function by name, decodes the LLM's argument mapping into the function's
// declared parameter struct, invokes it, awaits a pending result if one
// comes back, and renders the resolved value into the string the next LLM
// turn will see.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"

	"github.com/parthshr370/agentrt/internal/agenterr"
	"github.com/parthshr370/agentrt/internal/logging"
	"github.com/parthshr370/agentrt/registry"
)

// Executor binds a registry to invoke against.
type Executor struct {
	registry *registry.Registry
	logger   logging.Logger
	// validate, when true, checks decoded arguments against the function's
	// schema with gojsonschema before invoking, turning a malformed-argument
	// LLM mistake into a precise ArgumentDecodeError instead of a panic deep
	// in reflect.Call. On by default; WithoutSchemaValidation turns it off
	// for callers that trust their own argument decoding.
	validate bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithoutSchemaValidation disables the default gojsonschema validation of
// decoded arguments against the function's registered parameter schema.
func WithoutSchemaValidation() Option {
	return func(e *Executor) { e.validate = false }
}

// New builds an Executor bound to reg, with schema validation enabled by
// default.
func New(reg *registry.Registry, opts ...Option) *Executor {
	e := &Executor{registry: reg, logger: logging.GetLogger("executor"), validate: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs lookup, implementation check, argument decode, invocation,
// await-if-pending, and error wrapping, in that order.
func (e *Executor) Execute(ctx context.Context, name string, arguments map[string]any) (any, error) {
	def, ok := e.registry.Get(name)
	if !ok {
		return nil, agenterr.New(agenterr.ErrToolNotFound, name, nil)
	}
	if !def.Implementation.IsValid() {
		return nil, agenterr.New(agenterr.ErrToolNotImplemented, name, nil)
	}

	if e.validate {
		if err := e.validateArguments(def, arguments); err != nil {
			return nil, agenterr.New(agenterr.ErrArgumentDecode, name, err)
		}
	}

	argsPtr := reflect.New(def.ArgsType)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           argsPtr.Interface(),
	})
	if err != nil {
		return nil, agenterr.New(agenterr.ErrArgumentDecode, name, err)
	}
	if err := decoder.Decode(arguments); err != nil {
		return nil, agenterr.New(agenterr.ErrArgumentDecode, name, err)
	}

	results := def.Implementation.Call([]reflect.Value{argsPtr.Elem()})

	var value any
	var callErr error
	switch len(results) {
	case 1:
		value = results[0].Interface()
	case 2:
		value = results[0].Interface()
		if errVal := results[1].Interface(); errVal != nil {
			callErr = errVal.(error)
		}
	}
	if callErr != nil {
		return nil, agenterr.New(agenterr.ErrToolExecution, name, callErr)
	}

	if awaitable, ok := value.(Awaitable); ok {
		resolved, err := awaitable.Await(ctx)
		if err != nil {
			return nil, agenterr.New(agenterr.ErrToolExecution, name, err)
		}
		return resolved, nil
	}

	return value, nil
}

func (e *Executor) validateArguments(def registry.FunctionDefinition, arguments map[string]any) error {
	schemaLoader := gojsonschema.NewGoLoader(def.Parameters)
	docLoader := gojsonschema.NewGoLoader(arguments)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if !result.Valid() {
		return fmt.Errorf("arguments do not match schema: %v", result.Errors())
	}
	return nil
}

// FormatResult renders a resolved tool value into the string the next LLM
// turn observes.
//
//   - nil → the literal acknowledgement "执行成功" ("executed").
//   - slices and maps → JSON, two-space indented, non-ASCII unescaped; on
//     encode failure, fall back to "%v".
//   - everything else → fmt.Sprintf("%v", value).
func (e *Executor) FormatResult(value any) string {
	if value == nil {
		return "执行成功"
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		encoded, err := marshalIndentUnescaped(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return encoded
	default:
		return fmt.Sprintf("%v", value)
	}
}

// marshalIndentUnescaped JSON-encodes value with two-space indentation and
// HTML escaping of <, > and & disabled. encoding/json writes non-ASCII
// characters as-is, so content such as "执行成功" embedded in a nested
// result is not \u-escaped.
func marshalIndentUnescaped(value any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	out := buf.String()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out, nil
}
