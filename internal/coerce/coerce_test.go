package coerce

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/solatis/dbdrill/internal/types"
)

func TestFromString(t *testing.T) {
	ts, _ := time.Parse(time.RFC3339, "2024-06-01T12:00:00Z")
	u := uuid.MustParse("a2f96826-3fa0-4fcb-a4fe-3e8a2e9cd4ba")

	tests := []struct {
		name    string
		input   string
		ty      types.ParamType
		want    any
		wantErr bool
	}{
		{name: "none passes text through", input: "hello", ty: types.ParamTypeNone, want: "hello"},
		{name: "none keeps empty string", input: "", ty: types.ParamTypeNone, want: ""},
		{name: "bool", input: "true", ty: types.ParamTypeBool, want: true},
		{name: "bool rejects garbage", input: "yes!", ty: types.ParamTypeBool, wantErr: true},
		{name: "int2", input: "123", ty: types.ParamTypeInt2, want: int16(123)},
		{name: "int2 overflow", input: "70000", ty: types.ParamTypeInt2, wantErr: true},
		{name: "int4", input: "42", ty: types.ParamTypeInt4, want: int32(42)},
		{name: "int4 empty string fails", input: "", ty: types.ParamTypeInt4, wantErr: true},
		{name: "int8", input: "-9000000000", ty: types.ParamTypeInt8, want: int64(-9000000000)},
		{name: "float4", input: "2.5", ty: types.ParamTypeFloat4, want: float32(2.5)},
		{name: "float8", input: "3.14159", ty: types.ParamTypeFloat8, want: 3.14159},
		{name: "text", input: "a,b", ty: types.ParamTypeText, want: "a,b"},
		{name: "json valid", input: `{"a":1}`, ty: types.ParamTypeJSONB, want: `{"a":1}`},
		{name: "json invalid", input: `{"a":`, ty: types.ParamTypeJSONB, wantErr: true},
		{name: "timestamptz", input: "2024-06-01T12:00:00Z", ty: types.ParamTypeTimestamptz, want: ts},
		{name: "timestamptz empty string fails", input: "", ty: types.ParamTypeTimestamptz, wantErr: true},
		{name: "uuid", input: "a2f96826-3fa0-4fcb-a4fe-3e8a2e9cd4ba", ty: types.ParamTypeUUID, want: u},
		{name: "uuid empty string fails", input: "", ty: types.ParamTypeUUID, wantErr: true},

		{name: "text array", input: "a,b,c", ty: types.ParamTypeTextArray, want: []string{"a", "b", "c"}},
		{name: "text array empty string is empty array", input: "", ty: types.ParamTypeTextArray, want: []string{}},
		{name: "int4 array", input: "1,2,3", ty: types.ParamTypeInt4Array, want: []int32{1, 2, 3}},
		{name: "int4 array empty string is empty array", input: "", ty: types.ParamTypeInt4Array, want: []int32{}},
		{name: "int4 array bad element fails whole conversion", input: "1,x,3", ty: types.ParamTypeInt4Array, wantErr: true},
		{name: "bool array", input: "true,false", ty: types.ParamTypeBoolArray, want: []bool{true, false}},
		{name: "int8 array", input: "1,2", ty: types.ParamTypeInt8Array, want: []int64{1, 2}},
		{name: "float8 array", input: "1.5,2.5", ty: types.ParamTypeFloat8Array, want: []float64{1.5, 2.5}},
		{name: "timestamptz array", input: "2024-06-01T12:00:00Z", ty: types.ParamTypeTimestamptzArray, want: []time.Time{ts}},
		{name: "uuid array", input: "a2f96826-3fa0-4fcb-a4fe-3e8a2e9cd4ba", ty: types.ParamTypeUUIDArray, want: []uuid.UUID{u}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromString(tt.input, tt.ty)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("FromString(%q, %s) = %v, want error", tt.input, tt.ty, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromString(%q, %s) error: %v", tt.input, tt.ty, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromString(%q, %s) = %#v, want %#v", tt.input, tt.ty, got, tt.want)
			}
		})
	}
}

func TestFromStringArrayErrorNamesElement(t *testing.T) {
	_, err := FromString("1,nope,3", types.ParamTypeInt8Array)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `"nope"`) {
		t.Errorf("error %q does not name the offending element", err)
	}
}

func TestFromJSONScalarCardinality(t *testing.T) {
	for _, nodes := range [][]any{{}, {float64(1), float64(2)}} {
		_, err := FromJSON(nodes, types.ParamTypeInt4)
		var card *types.CardinalityError
		if !errors.As(err, &card) {
			t.Fatalf("FromJSON(%v) error = %v, want CardinalityError", nodes, err)
		}
		if card.Want != 1 || card.Got != len(nodes) {
			t.Errorf("cardinality error = want %d got %d, expected want 1 got %d", card.Want, card.Got, len(nodes))
		}
	}

	got, err := FromJSON([]any{float64(7)}, types.ParamTypeInt4)
	if err != nil {
		t.Fatalf("single node: %v", err)
	}
	if got != int32(7) {
		t.Errorf("single node = %#v, want int32(7)", got)
	}
}

func TestFromJSON(t *testing.T) {
	ts, _ := time.Parse(time.RFC3339, "2024-06-01T12:00:00Z")

	tests := []struct {
		name    string
		nodes   []any
		ty      types.ParamType
		want    any
		wantErr string
	}{
		{name: "bool", nodes: []any{true}, ty: types.ParamTypeBool, want: true},
		{name: "bool narrows strictly", nodes: []any{"true"}, ty: types.ParamTypeBool, wantErr: "not a boolean"},
		{name: "int2", nodes: []any{float64(12)}, ty: types.ParamTypeInt2, want: int16(12)},
		{name: "int2 overflow is an error", nodes: []any{float64(40000)}, ty: types.ParamTypeInt2, wantErr: "overflows"},
		{name: "int4 rejects fractional", nodes: []any{1.5}, ty: types.ParamTypeInt4, wantErr: "not an integer"},
		{name: "int8", nodes: []any{float64(41)}, ty: types.ParamTypeInt8, want: int64(41)},
		{name: "float8", nodes: []any{2.25}, ty: types.ParamTypeFloat8, want: 2.25},
		{name: "untyped target behaves as text", nodes: []any{"abc"}, ty: types.ParamTypeNone, want: "abc"},
		{name: "text rejects number", nodes: []any{float64(1)}, ty: types.ParamTypeText, wantErr: "not a string"},
		{name: "json reserializes node", nodes: []any{map[string]any{"a": float64(1)}}, ty: types.ParamTypeJSONB, want: `{"a":1}`},
		{name: "timestamptz", nodes: []any{"2024-06-01T12:00:00Z"}, ty: types.ParamTypeTimestamptz, want: ts},
		{name: "timestamptz bad string", nodes: []any{"june first"}, ty: types.ParamTypeTimestamptz, wantErr: "not a valid timestamp"},

		{name: "text array", nodes: []any{"a", "b"}, ty: types.ParamTypeTextArray, want: []string{"a", "b"}},
		{name: "text array from single array node", nodes: []any{[]any{"a", "b"}}, ty: types.ParamTypeTextArray, want: []string{"a", "b"}},
		{name: "text array empty sequence", nodes: []any{}, ty: types.ParamTypeTextArray, want: []string{}},
		{name: "text array bad element", nodes: []any{"a", float64(2)}, ty: types.ParamTypeTextArray, wantErr: "array element"},
		{name: "int2 array", nodes: []any{float64(1), float64(2)}, ty: types.ParamTypeInt2Array, want: []int16{1, 2}},
		{name: "int4 array overflow element", nodes: []any{float64(1), float64(1) + float64(1<<40)}, ty: types.ParamTypeInt4Array, wantErr: "overflows"},
		{name: "bool array", nodes: []any{true, false}, ty: types.ParamTypeBoolArray, want: []bool{true, false}},
		{name: "float4 array", nodes: []any{1.5}, ty: types.ParamTypeFloat4Array, want: []float32{1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromJSON(tt.nodes, tt.ty)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("FromJSON(%v, %s) = %v, want error containing %q", tt.nodes, tt.ty, got, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("FromJSON(%v, %s) error = %q, want it to contain %q", tt.nodes, tt.ty, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromJSON(%v, %s) error: %v", tt.nodes, tt.ty, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromJSON(%v, %s) = %#v, want %#v", tt.nodes, tt.ty, got, tt.want)
			}
		})
	}
}
