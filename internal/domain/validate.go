package domain

import (
	"fmt"
	"strings"
)

// ValidateArguments checks raw caller arguments against the tool's declared
// parameter specs and returns a normalized argument map: defaults applied,
// numbers coerced to float64. It is pure and performs no I/O; the dispatcher
// calls it before any upstream activity.
func ValidateArguments(tool *Tool, raw map[string]any) (map[string]any, error) {
	args := make(map[string]any, len(tool.Params))

	for name := range raw {
		if tool.Param(name) == nil {
			return nil, &ValidationError{Tool: tool.Name, Param: name, Reason: "unknown parameter"}
		}
	}

	for i := range tool.Params {
		spec := &tool.Params[i]
		value, ok := raw[spec.Name]
		if !ok || value == nil {
			if spec.Required {
				return nil, &ValidationError{Tool: tool.Name, Param: spec.Name, Reason: "required parameter is missing"}
			}
			if spec.Default != nil {
				args[spec.Name] = spec.Default
			}
			continue
		}
		normalized, err := normalizeValue(tool.Name, spec, value)
		if err != nil {
			return nil, err
		}
		args[spec.Name] = normalized
	}

	for _, group := range tool.RequireOneOf {
		if !anyPresent(args, group) {
			return nil, &ValidationError{
				Tool:   tool.Name,
				Reason: fmt.Sprintf("one of %s must be provided", strings.Join(group, ", ")),
			}
		}
	}

	return args, nil
}

func anyPresent(args map[string]any, names []string) bool {
	for _, n := range names {
		if _, ok := args[n]; ok {
			return true
		}
	}
	return false
}

func normalizeValue(toolName string, spec *ParamSpec, value any) (any, error) {
	fail := func(reason string) (any, error) {
		return nil, &ValidationError{Tool: toolName, Param: spec.Name, Reason: reason}
	}

	switch spec.Kind {
	case ParamString:
		s, ok := value.(string)
		if !ok {
			return fail(fmt.Sprintf("expected a string, got %T", value))
		}
		if len(spec.Enum) > 0 && !contains(spec.Enum, s) {
			return fail(fmt.Sprintf("must be one of: %s", strings.Join(spec.Enum, ", ")))
		}
		return s, nil

	case ParamNumber:
		f, ok := asFloat(value)
		if !ok {
			return fail(fmt.Sprintf("expected a number, got %T", value))
		}
		if spec.ExclusiveMin != nil && f <= *spec.ExclusiveMin {
			return fail(fmt.Sprintf("must be greater than %v", *spec.ExclusiveMin))
		}
		if spec.ExclusiveMax != nil && f >= *spec.ExclusiveMax {
			return fail(fmt.Sprintf("must be less than %v", *spec.ExclusiveMax))
		}
		return f, nil

	case ParamBoolean:
		b, ok := value.(bool)
		if !ok {
			return fail(fmt.Sprintf("expected a boolean, got %T", value))
		}
		return b, nil

	case ParamObject:
		m, ok := value.(map[string]any)
		if !ok {
			return fail(fmt.Sprintf("expected an object, got %T", value))
		}
		return m, nil

	case ParamList:
		list, ok := value.([]any)
		if !ok {
			return fail(fmt.Sprintf("expected a list, got %T", value))
		}
		if spec.Items != "" {
			for idx, item := range list {
				if !itemMatches(spec.Items, item) {
					return fail(fmt.Sprintf("element %d: expected %s, got %T", idx, spec.Items, item))
				}
			}
		}
		return list, nil

	default:
		return fail(fmt.Sprintf("unsupported parameter kind %q", spec.Kind))
	}
}

// asFloat accepts the numeric representations encoding/json and mcp clients
// actually produce.
func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func itemMatches(kind ParamKind, item any) bool {
	switch kind {
	case ParamString:
		_, ok := item.(string)
		return ok
	case ParamNumber:
		_, ok := asFloat(item)
		return ok
	case ParamBoolean:
		_, ok := item.(bool)
		return ok
	case ParamObject:
		_, ok := item.(map[string]any)
		return ok
	}
	return true
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
