// Package fields normalizes list-valued request fields (tags, technologies,
// skills) that clients send either as a real sequence, a JSON-encoded array
// or a comma-separated string.
package fields

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformed = errors.New("malformed list value")

// List converts v into an ordered sequence of trimmed, non-empty strings.
// Order and duplicates are preserved. A nil value yields an empty slice.
func List(v any) ([]string, error) {
	switch value := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return clean(value), nil
	case []any:
		return fromAny(value)
	case string:
		var decoded []any
		err := json.Unmarshal([]byte(value), &decoded)
		if err == nil && decoded != nil {
			return fromAny(decoded)
		}
		return clean(strings.Split(value, ",")), nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrMalformed, v)
	}
}

func fromAny(values []any) ([]string, error) {
	items := make([]string, 0, len(values))
	for _, item := range values {
		switch s := item.(type) {
		case string:
			items = append(items, s)
		case float64, bool, json.Number:
			items = append(items, fmt.Sprint(s))
		case nil:
			// skipped like an empty string
		default:
			return nil, fmt.Errorf("%w: unsupported element %T", ErrMalformed, item)
		}
	}
	return clean(items), nil
}

func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Raw is a list-valued field as received, remembering whether the caller
// supplied it at all.
type Raw struct {
	present bool
	value   any
}

// Absent returns a Raw for a field the caller did not send.
func Absent() Raw {
	return Raw{}
}

// Of returns a Raw for a supplied value.
func Of(v any) Raw {
	return Raw{present: true, value: v}
}

// FromForm builds a Raw from the values of one form key. A key repeated
// several times is treated as an already-parsed sequence.
func FromForm(values []string) Raw {
	switch len(values) {
	case 0:
		return Absent()
	case 1:
		return Of(values[0])
	default:
		return Of(values)
	}
}

// Present reports whether the caller supplied the field.
func (r Raw) Present() bool {
	return r.present
}

// Normalize returns the canonical list. When the field is absent it returns
// present=false so callers keep their stored value.
func (r Raw) Normalize() (list []string, present bool, err error) {
	if !r.present {
		return []string{}, false, nil
	}
	list, err = List(r.value)
	if err != nil {
		return nil, true, err
	}
	return list, true, nil
}

// UnmarshalJSON lets Raw be used directly in JSON request bodies.
func (r *Raw) UnmarshalJSON(data []byte) error {
	var v any
	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}
	*r = Of(v)
	return nil
}
