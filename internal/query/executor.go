package query

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/solatis/dbdrill/internal/catalog"
	"github.com/solatis/dbdrill/internal/coerce"
	"github.com/solatis/dbdrill/internal/types"
)

/*
 * Query execution.
 *
 * Run coerces every parameter string against its declared type before
 * anything touches the database: execution happens with a fully-bound
 * parameter list or not at all. The first conversion failure aborts with a
 * ParamError naming the parameter and the offending text.
 *
 * Execution is one synchronous round trip. Database failures come back as a
 * QueryError wrapping the driver message verbatim; there is no retry.
 */

// Executor runs catalog searches against a live connection.
type Executor struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger falls back to slog.Default.
func NewExecutor(db *sqlx.DB, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{db: db, logger: logger}
}

// Run coerces paramStrings against the search's declared types, binds them
// positionally, and executes the query. A length mismatch between
// paramStrings and the search's parameters is a caller bug, reported as
// ErrParamCountMismatch.
func (e *Executor) Run(ctx context.Context, search *catalog.Search, paramStrings []string) ([]Row, error) {
	if len(paramStrings) != len(search.Params) {
		return nil, fmt.Errorf("%w: search declares %d params, caller supplied %d",
			types.ErrParamCountMismatch, len(search.Params), len(paramStrings))
	}

	bound := make([]any, 0, len(search.Params))
	for i, p := range search.Params {
		v, err := coerce.FromString(paramStrings[i], p.Type)
		if err != nil {
			return nil, &types.ParamError{Param: p.Name, Input: paramStrings[i], Type: p.Type, Err: err}
		}
		bound = append(bound, v)
	}

	return e.RunBound(ctx, search, bound)
}

// RunBound executes the search with already-typed parameter values, as
// produced by link resolution.
func (e *Executor) RunBound(ctx context.Context, search *catalog.Search, bound []any) ([]Row, error) {
	if len(bound) != len(search.Params) {
		return nil, fmt.Errorf("%w: search declares %d params, caller supplied %d",
			types.ErrParamCountMismatch, len(search.Params), len(bound))
	}

	// Queries authored with ? placeholders are rebound for the driver;
	// native $n text passes through untouched.
	queryText := search.Query
	if strings.Contains(queryText, "?") {
		queryText = e.db.Rebind(queryText)
	}

	args := make([]any, len(bound))
	for i, v := range bound {
		args[i] = BindValue(v)
	}

	e.logger.Debug("executing search query", slog.Int("params", len(args)))

	rows, err := e.db.QueryContext(ctx, queryText, args...)
	if err != nil {
		return nil, &types.QueryError{Err: err}
	}
	defer rows.Close()

	return scanRows(rows)
}

// BindValue adapts a coerced value for the driver: slices become array
// parameters, everything else binds as-is.
func BindValue(v any) any {
	switch v.(type) {
	case []bool, []int16, []int32, []int64, []float32, []float64,
		[]string, []time.Time, []uuid.UUID:
		return pq.Array(v)
	}
	return v
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, &types.QueryError{Err: err}
	}

	cols := make([]Column, len(colTypes))
	for i, ct := range colTypes {
		cols[i] = Column{Name: ct.Name(), DBType: ct.DatabaseTypeName()}
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &types.QueryError{Err: err}
		}
		out = append(out, Row{Columns: cols, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, &types.QueryError{Err: err}
	}

	return out, nil
}
