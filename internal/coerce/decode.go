package coerce

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

/*
 * Cell decoding for display.
 *
 * DecodeCell turns a raw database cell into the string shown in the result
 * table. Failures become the cell's own content ("errors become content"): an
 * unsupported column type must never crash or blank the rest of the row.
 */

// NullDisplay is the sentinel rendered for SQL NULL cells.
const NullDisplay = "<NULL>"

// timestampLayout is the fixed display form for timestamptz cells.
const timestampLayout = "2006-01-02T15:04:05.999999999Z07:00"

// DecodeCell renders a cell for display given the driver-reported database
// type name and the scanned value. It never returns an error; anything it
// cannot decode is rendered as an error string in place of the value.
func DecodeCell(dbType string, v any) string {
	if v == nil {
		return NullDisplay
	}

	switch strings.ToUpper(dbType) {
	case "BOOL", "BOOLEAN":
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b)
		}
		return decodeFallback(v)
	case "INT2", "INT4", "INT8", "SMALLINT", "INTEGER", "BIGINT":
		return decodeInteger(v)
	case "FLOAT4", "FLOAT8", "REAL", "DOUBLE PRECISION", "NUMERIC":
		return decodeFloat(v)
	case "TEXT", "VARCHAR", "BPCHAR", "NAME", "CHAR":
		return decodeString(v)
	case "JSON", "JSONB":
		// Serialized form straight from the wire.
		return decodeString(v)
	case "_TEXT", "_VARCHAR":
		return decodeTextArray(v)
	case "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE":
		if ts, ok := v.(time.Time); ok {
			return ts.Format(timestampLayout)
		}
		return decodeFallback(v)
	case "UUID":
		return decodeString(v)
	default:
		return fmt.Sprintf("unsupported type: %s", dbType)
	}
}

func decodeInteger(v any) string {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int16:
		return strconv.FormatInt(int64(n), 10)
	case int:
		return strconv.Itoa(n)
	default:
		return decodeFallback(v)
	}
}

func decodeFloat(v any) string {
	switch f := v.(type) {
	case float64:
		return strconv.FormatFloat(f, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case []byte:
		// NUMERIC arrives as text from the driver.
		return string(f)
	default:
		return decodeFallback(v)
	}
}

func decodeString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return decodeFallback(v)
	}
}

// decodeTextArray renders a text array as a bracketed, comma-separated
// literal list, e.g. ["a", "b"].
func decodeTextArray(v any) string {
	var arr pq.StringArray
	if err := arr.Scan(v); err != nil {
		return fmt.Sprintf("error decoding text array: %v", err)
	}
	quoted := make([]string, len(arr))
	for i, s := range arr {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// decodeFallback covers a value whose runtime shape does not match its
// reported column type. Rendered, not raised.
func decodeFallback(v any) string {
	return fmt.Sprintf("%v", v)
}
