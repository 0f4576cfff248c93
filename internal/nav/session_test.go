package nav

import (
	"context"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/dbdrill/internal/catalog"
	"github.com/solatis/dbdrill/internal/query"
)

const sessionDoc = `
order:
  name: order
  search:
    by_customer:
      query: SELECT id, customer_id FROM orders WHERE customer_id = ?
      params:
        - name: customer_id
          type: int8
  links:
    customer:
      kind: customer
      search: by_id
      search_params:
        - customer_id
customer:
  name: customer
  search:
    by_id:
      query: SELECT id, name FROM customers WHERE id = ?
      params:
        - name: id
          type: int8
`

func newSessionHarness(t *testing.T) (*Session, sqlmock.Sqlmock) {
	t.Helper()

	cat, err := catalog.Load(strings.NewReader(sessionDoc))
	require.NoError(t, err)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	exec := query.NewExecutor(sqlx.NewDb(db, "postgres"), nil)
	return NewSession(cat, exec), mock
}

func TestSessionDrillDown(t *testing.T) {
	s, mock := newSessionHarness(t)
	ctx := context.Background()

	require.Equal(t, KindResourcePicker, s.Current().Kind)
	require.Equal(t, 1, s.Depth())

	require.NoError(t, s.PickResource("order"))
	assert.Equal(t, KindSearchPicker, s.Current().Kind)

	require.NoError(t, s.PickSearch("by_customer"))
	assert.Equal(t, KindParamForm, s.Current().Kind)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, customer_id FROM orders WHERE customer_id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("id").OfType("INT8", int64(0)),
			sqlmock.NewColumn("customer_id").OfType("INT8", int64(0)),
		).AddRow(int64(7), int64(42)))

	require.NoError(t, s.SubmitParams(ctx, []string{"42"}))
	table := s.Current()
	assert.Equal(t, KindResultTable, table.Kind)
	assert.Equal(t, "order / by_customer (customer_id=42)", table.Title)
	require.Len(t, table.Rows, 1)

	require.NoError(t, s.PickRow(0))
	assert.Equal(t, KindLinkPicker, s.Current().Kind)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM customers WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("id").OfType("INT8", int64(0)),
			sqlmock.NewColumn("name").OfType("TEXT", ""),
		).AddRow(int64(42), "alice"))

	require.NoError(t, s.FollowLink(ctx, "customer"))
	linked := s.Current()
	assert.Equal(t, KindResultTable, linked.Kind)
	assert.Equal(t, "customer", string(linked.Resource))
	assert.Equal(t, "order (42) → customer", linked.Title)
	require.Len(t, linked.Rows, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionBackRestoresWithoutRequery(t *testing.T) {
	s, mock := newSessionHarness(t)
	ctx := context.Background()

	require.NoError(t, s.PickResource("order"))
	require.NoError(t, s.PickSearch("by_customer"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, customer_id FROM orders WHERE customer_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("id").OfType("INT8", int64(0)),
			sqlmock.NewColumn("customer_id").OfType("INT8", int64(0)),
		).AddRow(int64(1), int64(1)))

	require.NoError(t, s.SubmitParams(ctx, []string{"1"}))
	require.NoError(t, s.PickRow(0))

	// No further query expectations: popping screens must serve stored rows.
	s.Back()
	table := s.Current()
	require.Equal(t, KindResultTable, table.Kind)
	assert.Len(t, table.Rows, 1)

	s.Back()
	assert.Equal(t, KindParamForm, s.Current().Kind)
	s.Back()
	s.Back()
	s.Back()
	assert.True(t, s.Done())
	assert.Nil(t, s.Current())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionErrorsLeaveStackUntouched(t *testing.T) {
	s, mock := newSessionHarness(t)
	ctx := context.Background()

	assert.Error(t, s.PickResource("nope"))
	assert.Equal(t, 1, s.Depth())

	// Transitions demand the matching active screen kind.
	assert.Error(t, s.PickSearch("by_customer"))
	assert.Error(t, s.SubmitParams(ctx, nil))
	assert.Error(t, s.PickRow(0))
	assert.Error(t, s.FollowLink(ctx, "customer"))
	assert.Equal(t, 1, s.Depth())

	require.NoError(t, s.PickResource("order"))
	assert.Error(t, s.PickSearch("nope"))
	assert.Equal(t, KindSearchPicker, s.Current().Kind)

	require.NoError(t, s.PickSearch("by_customer"))

	// A bad parameter leaves the form active for correction.
	assert.Error(t, s.SubmitParams(ctx, []string{"not a number"}))
	assert.Equal(t, KindParamForm, s.Current().Kind)
	assert.Equal(t, 3, s.Depth())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionPickRowOutOfRange(t *testing.T) {
	s, mock := newSessionHarness(t)
	ctx := context.Background()

	require.NoError(t, s.PickResource("order"))
	require.NoError(t, s.PickSearch("by_customer"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, customer_id FROM orders WHERE customer_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("id").OfType("INT8", int64(0)),
			sqlmock.NewColumn("customer_id").OfType("INT8", int64(0)),
		))

	require.NoError(t, s.SubmitParams(ctx, []string{"1"}))
	assert.Empty(t, s.Current().Rows)
	assert.Error(t, s.PickRow(0))
	assert.Error(t, s.PickRow(-1))
	assert.Equal(t, KindResultTable, s.Current().Kind)
}
