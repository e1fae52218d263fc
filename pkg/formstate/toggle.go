package formstate

import "reflect"

// Toggle returns the multi-value array that results from switching value on
// or off. The current value is never mutated: absent or non-array values are
// treated as empty, selecting appends (once), deselecting removes every
// element equal to value.
func Toggle(current any, value any, on bool) []any {
	existing := AsList(current)
	next := make([]any, 0, len(existing)+1)

	if on {
		next = append(next, existing...)
		if !Contains(existing, value) {
			next = append(next, value)
		}
		return next
	}

	for _, item := range existing {
		if Equal(item, value) {
			continue
		}
		next = append(next, item)
	}
	return next
}

// AsList coerces a stored multi-value into a fresh []any. Anything that is
// not a slice yields an empty list.
func AsList(value any) []any {
	switch typed := value.(type) {
	case nil:
		return []any{}
	case []any:
		return append([]any{}, typed...)
	case []string:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, item)
		}
		return out
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{}
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, rv.Index(i).Interface())
	}
	return out
}

// Contains reports whether list holds an element equal to value.
func Contains(list []any, value any) bool {
	for _, item := range list {
		if Equal(item, value) {
			return true
		}
	}
	return false
}

// Equal compares two scalar option values. Integers and floats compare by
// numeric value so documents decoded from YAML and JSON agree.
func Equal(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
		return false
	}
	if !isComparable(a) || !isComparable(b) {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
