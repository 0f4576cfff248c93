// Package coerce converts between textual/JSON representations and typed,
// database-bindable parameter values, and decodes raw database cells back
// into display strings.
package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/solatis/dbdrill/internal/types"
)

/*
 * Text and JSON coercion.
 *
 * FromString parses operator-typed input against a declared parameter type.
 * FromJSON narrows a JSONPath result sequence against a declared parameter
 * type. Both dispatch exhaustively over the ParamType vocabulary; a missing
 * case is a compile-visible gap, not a silent passthrough.
 *
 * Conversion rules:
 *   - Scalars parse the whole string with the type's canonical parser.
 *   - Arrays split on commas; every element parses independently and the
 *     first failure aborts, naming the offending substring.
 *   - The empty string is an empty array for array types, and a parse error
 *     for numeric/uuid/timestamp scalars. No defaults anywhere.
 *   - Scalar JSON targets require exactly one node; anything else is a
 *     CardinalityError. Fixed-width integer targets are range-checked, never
 *     truncated.
 *
 * Returned values are native Go shapes ([]int32, time.Time, uuid.UUID, ...);
 * array values are wrapped for the driver at bind time by the query package.
 */

// FromString converts operator input to a typed parameter value.
func FromString(s string, t types.ParamType) (any, error) {
	switch t {
	case types.ParamTypeNone, types.ParamTypeText, types.ParamTypeVarchar:
		return s, nil
	case types.ParamTypeBool:
		return strconv.ParseBool(s)
	case types.ParamTypeBoolArray:
		return fromStringArray(s, strconv.ParseBool)
	case types.ParamTypeInt2:
		v, err := strconv.ParseInt(s, 10, 16)
		return int16(v), err
	case types.ParamTypeInt2Array:
		return fromStringArray(s, parseInt16)
	case types.ParamTypeInt4:
		v, err := strconv.ParseInt(s, 10, 32)
		return int32(v), err
	case types.ParamTypeInt4Array:
		return fromStringArray(s, parseInt32)
	case types.ParamTypeInt8:
		return strconv.ParseInt(s, 10, 64)
	case types.ParamTypeInt8Array:
		return fromStringArray(s, parseInt64)
	case types.ParamTypeFloat4:
		v, err := strconv.ParseFloat(s, 32)
		return float32(v), err
	case types.ParamTypeFloat4Array:
		return fromStringArray(s, parseFloat32)
	case types.ParamTypeFloat8:
		return strconv.ParseFloat(s, 64)
	case types.ParamTypeFloat8Array:
		return fromStringArray(s, parseFloat64)
	case types.ParamTypeTextArray, types.ParamTypeVarcharArray:
		if s == "" {
			return []string{}, nil
		}
		return strings.Split(s, ","), nil
	case types.ParamTypeJSON, types.ParamTypeJSONB:
		return parseJSON(s)
	case types.ParamTypeJSONBArray:
		return fromStringArray(s, parseJSON)
	case types.ParamTypeTimestamptz:
		return parseTimestamp(s)
	case types.ParamTypeTimestamptzArray:
		return fromStringArray(s, parseTimestamp)
	case types.ParamTypeUUID:
		return uuid.Parse(s)
	case types.ParamTypeUUIDArray:
		return fromStringArray(s, uuid.Parse)
	}
	return nil, fmt.Errorf("no text conversion for parameter type %s", t)
}

// fromStringArray splits on commas and parses every element independently.
// The empty string is a zero-length array, not an error.
func fromStringArray[T any](s string, parse func(string) (T, error)) ([]T, error) {
	if s == "" {
		return []T{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]T, 0, len(parts))
	for _, part := range parts {
		v, err := parse(part)
		if err != nil {
			return nil, fmt.Errorf("array element %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseInt16(s string) (int16, error) {
	v, err := strconv.ParseInt(s, 10, 16)
	return int16(v), err
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), err
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat32(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	return float32(v), err
}

func parseFloat64(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// parseJSON validates the text is well-formed JSON and passes it through as a
// string; the server casts it in parameter position.
func parseJSON(s string) (string, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return "", err
	}
	return s, nil
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// FromJSON converts a JSONPath result sequence to a typed parameter value.
// Scalar targets require exactly one node; array targets accept any length
// including zero. An untyped target behaves as text.
func FromJSON(nodes []any, t types.ParamType) (any, error) {
	switch t {
	case types.ParamTypeNone, types.ParamTypeText, types.ParamTypeVarchar:
		node, err := extractSingle(nodes)
		if err != nil {
			return nil, err
		}
		return asString(node)
	case types.ParamTypeTextArray, types.ParamTypeVarcharArray:
		return fromJSONArray(nodes, asString)
	case types.ParamTypeBool:
		node, err := extractSingle(nodes)
		if err != nil {
			return nil, err
		}
		return asBool(node)
	case types.ParamTypeBoolArray:
		return fromJSONArray(nodes, asBool)
	case types.ParamTypeInt2:
		node, err := extractSingle(nodes)
		if err != nil {
			return nil, err
		}
		return asInt16(node)
	case types.ParamTypeInt2Array:
		return fromJSONArray(nodes, asInt16)
	case types.ParamTypeInt4:
		node, err := extractSingle(nodes)
		if err != nil {
			return nil, err
		}
		return asInt32(node)
	case types.ParamTypeInt4Array:
		return fromJSONArray(nodes, asInt32)
	case types.ParamTypeInt8:
		node, err := extractSingle(nodes)
		if err != nil {
			return nil, err
		}
		return asInt64(node)
	case types.ParamTypeInt8Array:
		return fromJSONArray(nodes, asInt64)
	case types.ParamTypeFloat4:
		node, err := extractSingle(nodes)
		if err != nil {
			return nil, err
		}
		return asFloat32(node)
	case types.ParamTypeFloat4Array:
		return fromJSONArray(nodes, asFloat32)
	case types.ParamTypeFloat8:
		node, err := extractSingle(nodes)
		if err != nil {
			return nil, err
		}
		return asFloat64(node)
	case types.ParamTypeFloat8Array:
		return fromJSONArray(nodes, asFloat64)
	case types.ParamTypeJSON, types.ParamTypeJSONB:
		node, err := extractSingle(nodes)
		if err != nil {
			return nil, err
		}
		return asJSON(node)
	case types.ParamTypeJSONBArray:
		return fromJSONArray(nodes, asJSON)
	case types.ParamTypeTimestamptz:
		node, err := extractSingle(nodes)
		if err != nil {
			return nil, err
		}
		return asTimestamp(node)
	case types.ParamTypeTimestamptzArray:
		return fromJSONArray(nodes, asTimestamp)
	case types.ParamTypeUUID:
		node, err := extractSingle(nodes)
		if err != nil {
			return nil, err
		}
		return asUUID(node)
	case types.ParamTypeUUIDArray:
		return fromJSONArray(nodes, asUUID)
	}
	return nil, fmt.Errorf("no JSON conversion for parameter type %s", t)
}

// extractSingle enforces scalar cardinality: exactly one JSON node.
func extractSingle(nodes []any) (any, error) {
	if len(nodes) != 1 {
		return nil, &types.CardinalityError{Want: 1, Got: len(nodes)}
	}
	return nodes[0], nil
}

func fromJSONArray[T any](nodes []any, narrow func(any) (T, error)) ([]T, error) {
	// A path like $.tags matches the array itself as one node; its elements
	// are the values to bind.
	if len(nodes) == 1 {
		if arr, ok := nodes[0].([]any); ok {
			nodes = arr
		}
	}
	out := make([]T, 0, len(nodes))
	for _, node := range nodes {
		v, err := narrow(node)
		if err != nil {
			return nil, fmt.Errorf("array element: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func asBool(node any) (bool, error) {
	b, ok := node.(bool)
	if !ok {
		return false, fmt.Errorf("value is not a boolean: %v", node)
	}
	return b, nil
}

func asString(node any) (string, error) {
	s, ok := node.(string)
	if !ok {
		return "", fmt.Errorf("value is not a string: %v", node)
	}
	return s, nil
}

// numberAsInt64 accepts the numeric shapes JSON decoding can produce.
// Non-integral floats are rejected rather than rounded.
func numberAsInt64(node any) (int64, error) {
	switch v := node.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("value is not an integer: %v", node)
		}
		return int64(v), nil
	case json.Number:
		return v.Int64()
	default:
		return 0, fmt.Errorf("value is not a number: %v", node)
	}
}

func asInt16(node any) (int16, error) {
	v, err := numberAsInt64(node)
	if err != nil {
		return 0, err
	}
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, fmt.Errorf("value overflows target type: %v", node)
	}
	return int16(v), nil
}

func asInt32(node any) (int32, error) {
	v, err := numberAsInt64(node)
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("value overflows target type: %v", node)
	}
	return int32(v), nil
}

func asInt64(node any) (int64, error) {
	return numberAsInt64(node)
}

func asFloat64(node any) (float64, error) {
	switch v := node.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("value is not a number: %v", node)
	}
}

func asFloat32(node any) (float32, error) {
	v, err := asFloat64(node)
	return float32(v), err
}

// asJSON serializes the node back to JSON text; the server casts it in
// parameter position.
func asJSON(node any) (string, error) {
	b, err := json.Marshal(node)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func asTimestamp(node any) (time.Time, error) {
	s, ok := node.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("value is not a string: %v", node)
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("value is not a valid timestamp: %v", node)
	}
	return ts, nil
}

func asUUID(node any) (uuid.UUID, error) {
	s, ok := node.(string)
	if !ok {
		return uuid.UUID{}, fmt.Errorf("value is not a string: %v", node)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("value is not a valid uuid: %v", node)
	}
	return u, nil
}
