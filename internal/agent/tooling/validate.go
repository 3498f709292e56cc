package tooling

import (
	"fmt"
	"math"
	"sort"

	"github.com/cloudwego/eino/schema"
)

// validateArguments checks decoded JSON arguments against a descriptor's
// parameter schema: every required parameter present, every present
// parameter of the declared type. Undeclared extras are tolerated since
// models occasionally emit them.
func validateArguments(d Descriptor, args map[string]any) error {
	var missing, mismatched []string

	names := make([]string, 0, len(d.Params))
	for name := range d.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := d.Params[name]
		value, present := args[name]
		if !present {
			if info.Required {
				missing = append(missing, name)
			}
			continue
		}
		if ok, got := matchesType(info.Type, value); !ok {
			mismatched = append(mismatched, fmt.Sprintf("%s (want %s, got %s)", name, info.Type, got))
		}
	}

	if len(missing) > 0 || len(mismatched) > 0 {
		return &InvalidArgumentsError{Tool: d.Name, Missing: missing, Mismatched: mismatched}
	}
	return nil
}

// matchesType maps JSON-decoded Go values onto the closed schema type set.
func matchesType(want schema.DataType, value any) (bool, string) {
	switch v := value.(type) {
	case string:
		return want == schema.String, "string"
	case bool:
		return want == schema.Boolean, "boolean"
	case float64:
		if want == schema.Number {
			return true, "number"
		}
		if want == schema.Integer {
			return v == math.Trunc(v), "number"
		}
		return false, "number"
	case map[string]any:
		return want == schema.Object, "object"
	case []any:
		return want == schema.Array, "array"
	case nil:
		return want == schema.Null, "null"
	default:
		return false, fmt.Sprintf("%T", value)
	}
}
