package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is an opaque field-name to value mapping as decoded from the backend.
// Values may be strings, numbers, booleans, ISO date strings, or nested
// objects/arrays; the browsing engine never binds to concrete backend structs.
type Record map[string]any

// DefaultIDField is the identity field used when a configuration does not
// name one.
const DefaultIDField = "id"

// ID returns the normalized string identity of the record, or "" when the
// field is absent, empty, or not representable as a scalar.
func ID(r Record, field string) string {
	if field == "" {
		field = DefaultIDField
	}
	return StringField(r, field)
}

// StringField returns the record field rendered as a string, following
// dotted paths into nested objects ("person.lastName"). Missing fields and
// nested structures yield "".
func StringField(r Record, field string) string {
	value, ok := Field(r, field)
	if !ok || value == nil {
		return ""
	}
	return Stringify(value)
}

// Field returns the raw value for a field, supporting dotted paths into
// nested objects ("parent.id").
func Field(r Record, path string) (any, bool) {
	if r == nil || path == "" {
		return nil, false
	}

	current := any(r)
	for _, segment := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Stringify converts a scalar value to its canonical string form. Nested
// objects and arrays return "" so callers can substitute an indicator.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		// JSON numbers decode as float64; render integral values without a
		// trailing ".0" so ids and counts read naturally.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

// IsNested reports whether the value is a nested object or array rather than
// a renderable scalar.
func IsNested(value any) bool {
	switch value.(type) {
	case map[string]any, Record, []any, []map[string]any:
		return true
	default:
		return false
	}
}

func asMap(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case Record:
		return m, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}
