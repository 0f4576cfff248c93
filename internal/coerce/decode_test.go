package coerce

import (
	"testing"
	"time"
)

func TestDecodeCell(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		dbType string
		value  any
		want   string
	}{
		{"null", "TEXT", nil, "<NULL>"},
		{"bool true", "BOOL", true, "true"},
		{"bool false", "BOOLEAN", false, "false"},
		{"int2", "INT2", int16(7), "7"},
		{"int4", "INT4", int32(42), "42"},
		{"int8", "INT8", int64(-9000), "-9000"},
		{"integer as int64", "INTEGER", int64(5), "5"},
		{"float8", "FLOAT8", 3.25, "3.25"},
		{"numeric as bytes", "NUMERIC", []byte("12.50"), "12.50"},
		{"text string", "TEXT", "hello", "hello"},
		{"text bytes", "TEXT", []byte("bytes"), "bytes"},
		{"varchar", "VARCHAR", "v", "v"},
		{"jsonb passthrough", "JSONB", []byte(`{"a": 1}`), `{"a": 1}`},
		{"json passthrough", "JSON", `[1, 2]`, `[1, 2]`},
		{"text array", "_TEXT", []byte(`{a,b}`), `["a", "b"]`},
		{"varchar array", "_VARCHAR", []byte(`{x}`), `["x"]`},
		{"empty text array", "_TEXT", []byte(`{}`), `[]`},
		{"timestamptz", "TIMESTAMPTZ", ts, "2024-03-15T09:30:00Z"},
		{"uuid", "UUID", []byte("f1b5310c-5b18-4c60-9b9a-1c2de148d0bc"), "f1b5310c-5b18-4c60-9b9a-1c2de148d0bc"},
		{"unsupported type", "CIRCLE", []byte("<(0,0),1>"), "unsupported type: CIRCLE"},
		{"shape mismatch falls back", "BOOL", int64(1), "1"},
		{"lowercase type name", "int4", int32(3), "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeCell(tt.dbType, tt.value)
			if got != tt.want {
				t.Errorf("DecodeCell(%q, %v) = %q, want %q", tt.dbType, tt.value, got, tt.want)
			}
		})
	}
}
