package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// AnswerMap holds the current runtime values keyed by field id. It is used
// transiently during preview and evaluation and is never persisted as part
// of a FormSchema.
type AnswerMap map[string]any

// Clone returns a shallow copy of the answer map. Values are treated as
// immutable by the engine, so a shallow copy is sufficient.
func (a AnswerMap) Clone() AnswerMap {
	if a == nil {
		return nil
	}
	out := make(AnswerMap, len(a))
	for key, value := range a {
		out[key] = value
	}
	return out
}

// FileUpload is the engine's view of a file answer. Only the metadata is
// carried; reading file contents is the surrounding application's concern.
type FileUpload struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
}

// StringValue coerces an answer value to its textual form. Nil becomes the
// empty string.
func StringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}

// NumberValue coerces an answer value to a float64. The second return is
// false when the value is absent, non-numeric, or not finite.
func NumberValue(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// SliceValue extracts a multi-value answer as a string slice. The second
// return is false when the value is not list-shaped.
func SliceValue(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			out = append(out, StringValue(entry))
		}
		return out, true
	default:
		return nil, false
	}
}

// IsEmptyValue reports whether value counts as empty for the given field
// type. This is the shared emptiness contract used by both the required
// check and the empty/not_empty visibility operators.
func IsEmptyValue(value any, fieldType FieldType) bool {
	if value == nil {
		return true
	}

	switch fieldType {
	case FieldTypeNumber:
		// Non-numeric text is present-but-invalid, not empty; the type
		// check reports it.
		return strings.TrimSpace(StringValue(value)) == ""
	case FieldTypeCheckbox:
		if entries, ok := SliceValue(value); ok {
			return len(entries) == 0
		}
		return strings.TrimSpace(StringValue(value)) == ""
	case FieldTypeFile:
		switch v := value.(type) {
		case FileUpload:
			return false
		case []FileUpload:
			return len(v) == 0
		case []string:
			return len(v) == 0
		case string:
			return strings.TrimSpace(v) == ""
		default:
			return false
		}
	case FieldTypeDate:
		if ts, ok := value.(time.Time); ok {
			return ts.IsZero()
		}
		return strings.TrimSpace(StringValue(value)) == ""
	default:
		return strings.TrimSpace(StringValue(value)) == ""
	}
}
