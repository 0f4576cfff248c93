// Package link derives the bound parameter list for following a link from a
// result row to another resource's search.
package link

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/ohler55/ojg/jp"

	"github.com/solatis/dbdrill/internal/catalog"
	"github.com/solatis/dbdrill/internal/coerce"
	"github.com/solatis/dbdrill/internal/query"
	"github.com/solatis/dbdrill/internal/types"
)

/*
 * Link resolution.
 *
 * For each (column expression, target parameter) pair, zipped positionally:
 *
 *   - A bare column reference reads the cell typed by the row's own column
 *     type and binds it in that native shape. A native type with no mapping
 *     is a LinkError naming the column and type, never a silent fallback.
 *   - A (column, json_path) pair reads the column as JSON, evaluates the
 *     path, and feeds the node sequence to coerce.FromJSON with the target
 *     parameter's declared type.
 *
 * A human-readable title is assembled alongside the parameters: the source
 * resource's display name, each parameter's decoded value (or path=value for
 * JSONPath expressions), and the link name. Resolution is pure: it mutates
 * neither the row nor the catalog, and it performs no I/O.
 */

// Resolution is the outcome of resolving a link against a row: the target
// resource, its search, the positionally bound parameters, and the display
// title for the resulting screen.
type Resolution struct {
	Target types.ResourceID
	Search *catalog.Search
	Params []any
	Title  string
}

// Resolve builds the bound parameter list and title for following the named
// link from a row of the source resource. The catalog guarantees the link's
// target resource and search exist; their absence here means the catalog was
// not loaded through validation and is reported as an internal error.
func Resolve(cat *catalog.Catalog, sourceID types.ResourceID, linkID types.LinkID, row *query.Row) (*Resolution, error) {
	source := cat.Resource(sourceID)
	if source == nil {
		return nil, fmt.Errorf("catalog inconsistency: unknown resource %s", sourceID)
	}
	lnk := cat.Link(sourceID, linkID)
	if lnk == nil {
		return nil, fmt.Errorf("catalog inconsistency: resource %s has no link %s", sourceID, linkID)
	}
	targetSearch := cat.Search(lnk.Kind, lnk.Search)
	if targetSearch == nil {
		return nil, fmt.Errorf("catalog inconsistency: link %s targets missing search %s.%s", linkID, lnk.Kind, lnk.Search)
	}

	params := make([]any, 0, len(lnk.SearchParams))
	titleItems := make([]string, 0, len(lnk.SearchParams))

	for i, expr := range lnk.SearchParams {
		targetParam := targetSearch.Params[i]

		idx := row.Index(expr.Column)
		if idx < 0 {
			return nil, &types.LinkError{
				Link:   linkID,
				Column: expr.Column,
				Path:   expr.Path,
				Err:    fmt.Errorf("column %w in row", types.ErrNotFound),
			}
		}

		if !expr.IsJSONPath() {
			bound, err := bindFromColumn(row.Columns[idx].DBType, row.Values[idx])
			if err != nil {
				return nil, &types.LinkError{Link: linkID, Column: expr.Column, Err: err}
			}
			params = append(params, bound)
			titleItems = append(titleItems, row.Display(idx))
			continue
		}

		bound, err := resolveJSONPath(expr, targetParam.Type, row, idx)
		if err != nil {
			return nil, &types.LinkError{Link: linkID, Column: expr.Column, Path: expr.Path, Err: err}
		}
		params = append(params, bound)
		titleItems = append(titleItems, expr.Path+"="+row.Display(idx))
	}

	title := fmt.Sprintf("%s (%s) → %s", source.Name, strings.Join(titleItems, ", "), linkID)

	return &Resolution{
		Target: lnk.Kind,
		Search: targetSearch,
		Params: params,
		Title:  title,
	}, nil
}

// resolveJSONPath reads the column as JSON, evaluates the path, and narrows
// the resulting node sequence to the target parameter type.
func resolveJSONPath(expr catalog.ColumnExpr, target types.ParamType, row *query.Row, idx int) (any, error) {
	raw, err := cellJSON(row.Values[idx])
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("error parsing value as JSON: %w", err)
	}

	path, err := jp.ParseString(expr.Path)
	if err != nil {
		// Validated at load time; reaching this means the catalog was not.
		return nil, fmt.Errorf("invalid JSONPath expression: %w", err)
	}

	return coerce.FromJSON(path.Get(doc), target)
}

func cellJSON(v any) ([]byte, error) {
	switch raw := v.(type) {
	case []byte:
		return raw, nil
	case string:
		return []byte(raw), nil
	case nil:
		return nil, fmt.Errorf("column is NULL, expected JSON")
	default:
		return nil, fmt.Errorf("column does not hold JSON (got %T)", v)
	}
}

// bindFromColumn maps a cell to a bound parameter of the column's own native
// shape. The mapping covers the same vocabulary the decoder supports; any
// other native type is an ErrUnsupportedColumnType.
func bindFromColumn(dbType string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch strings.ToUpper(dbType) {
	case "BOOL", "BOOLEAN",
		"INT2", "INT4", "INT8", "SMALLINT", "INTEGER", "BIGINT",
		"FLOAT4", "FLOAT8", "REAL", "DOUBLE PRECISION",
		"TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE":
		return v, nil
	case "TEXT", "VARCHAR", "BPCHAR", "NAME", "CHAR", "JSON", "JSONB", "UUID":
		switch s := v.(type) {
		case []byte:
			return string(s), nil
		default:
			return v, nil
		}
	case "_TEXT", "_VARCHAR":
		var arr pq.StringArray
		if err := arr.Scan(v); err != nil {
			return nil, fmt.Errorf("error decoding text array: %w", err)
		}
		return []string(arr), nil
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedColumnType, dbType)
	}
}
