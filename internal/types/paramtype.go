package types

import "fmt"

// ParamType is the closed vocabulary of declared search parameter types.
// Every dispatch site (text parse, JSON coercion, cell decode) switches
// exhaustively over these values so that adding a type is a single
// compile-time-visible change.
type ParamType int

const (
	// ParamTypeNone means no declared type: raw text passthrough.
	ParamTypeNone ParamType = iota
	ParamTypeBool
	ParamTypeBoolArray
	ParamTypeInt2
	ParamTypeInt2Array
	ParamTypeInt4
	ParamTypeInt4Array
	ParamTypeInt8
	ParamTypeInt8Array
	ParamTypeFloat4
	ParamTypeFloat4Array
	ParamTypeFloat8
	ParamTypeFloat8Array
	ParamTypeText
	ParamTypeTextArray
	ParamTypeVarchar
	ParamTypeVarcharArray
	ParamTypeJSON
	ParamTypeJSONB
	ParamTypeJSONBArray
	ParamTypeTimestamptz
	ParamTypeTimestamptzArray
	ParamTypeUUID
	ParamTypeUUIDArray
)

// paramTypeNames maps enum values to their configuration vocabulary tokens.
// "integer" rather than "int4" is the historical spelling for the most common
// case; the remaining tokens follow PostgreSQL type names.
var paramTypeNames = map[ParamType]string{
	ParamTypeBool:             "bool",
	ParamTypeBoolArray:        "bool[]",
	ParamTypeInt2:             "int2",
	ParamTypeInt2Array:        "int2[]",
	ParamTypeInt4:             "integer",
	ParamTypeInt4Array:        "integer[]",
	ParamTypeInt8:             "int8",
	ParamTypeInt8Array:        "int8[]",
	ParamTypeFloat4:           "float4",
	ParamTypeFloat4Array:      "float4[]",
	ParamTypeFloat8:           "float8",
	ParamTypeFloat8Array:      "float8[]",
	ParamTypeText:             "text",
	ParamTypeTextArray:        "text[]",
	ParamTypeVarchar:          "varchar",
	ParamTypeVarcharArray:     "varchar[]",
	ParamTypeJSON:             "json",
	ParamTypeJSONB:            "jsonb",
	ParamTypeJSONBArray:       "jsonb[]",
	ParamTypeTimestamptz:      "timestamptz",
	ParamTypeTimestamptzArray: "timestamptz[]",
	ParamTypeUUID:             "uuid",
	ParamTypeUUIDArray:        "uuid[]",
}

var paramTypeValues = func() map[string]ParamType {
	m := make(map[string]ParamType, len(paramTypeNames))
	for t, name := range paramTypeNames {
		m[name] = t
	}
	return m
}()

// ParseParamType maps a configuration token (e.g. "integer", "text[]",
// "timestamptz") to its ParamType. Unknown tokens are rejected so that typos
// in the resources file fail at load time rather than at query time.
func ParseParamType(s string) (ParamType, error) {
	t, ok := paramTypeValues[s]
	if !ok {
		return ParamTypeNone, fmt.Errorf("unknown search parameter type %q", s)
	}
	return t, nil
}

// String returns the configuration token for t. ParamTypeNone renders as
// "none"; it has no configuration spelling (an omitted "type" field).
func (t ParamType) String() string {
	if t == ParamTypeNone {
		return "none"
	}
	if name, ok := paramTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ParamType(%d)", int(t))
}

// IsArray reports whether t is one of the array variants.
func (t ParamType) IsArray() bool {
	switch t {
	case ParamTypeBoolArray, ParamTypeInt2Array, ParamTypeInt4Array,
		ParamTypeInt8Array, ParamTypeFloat4Array, ParamTypeFloat8Array,
		ParamTypeTextArray, ParamTypeVarcharArray, ParamTypeJSONBArray,
		ParamTypeTimestamptzArray, ParamTypeUUIDArray:
		return true
	}
	return false
}

// Elem returns the scalar counterpart of an array type. For scalar types it
// returns the type unchanged.
func (t ParamType) Elem() ParamType {
	switch t {
	case ParamTypeBoolArray:
		return ParamTypeBool
	case ParamTypeInt2Array:
		return ParamTypeInt2
	case ParamTypeInt4Array:
		return ParamTypeInt4
	case ParamTypeInt8Array:
		return ParamTypeInt8
	case ParamTypeFloat4Array:
		return ParamTypeFloat4
	case ParamTypeFloat8Array:
		return ParamTypeFloat8
	case ParamTypeTextArray:
		return ParamTypeText
	case ParamTypeVarcharArray:
		return ParamTypeVarchar
	case ParamTypeJSONBArray:
		return ParamTypeJSONB
	case ParamTypeTimestamptzArray:
		return ParamTypeTimestamptz
	case ParamTypeUUIDArray:
		return ParamTypeUUID
	}
	return t
}
