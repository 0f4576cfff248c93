// Package nav models the drilling session as an explicit stack of screens.
//
// Transitions are caller-driven pushes and pops over already-fetched data.
// Only two transitions perform I/O: submitting a parameter form (runs the
// search) and following a link (resolves it, then runs the target search).
// A recoverable error leaves the stack untouched so the triggering screen
// stays active for correction.
package nav

import (
	"context"
	"fmt"
	"strings"

	"github.com/solatis/dbdrill/internal/catalog"
	"github.com/solatis/dbdrill/internal/link"
	"github.com/solatis/dbdrill/internal/query"
	"github.com/solatis/dbdrill/internal/types"
)

// Kind tags a screen variant.
type Kind int

const (
	KindResourcePicker Kind = iota
	KindSearchPicker
	KindParamForm
	KindResultTable
	KindLinkPicker
)

// String returns the screen kind's display name.
func (k Kind) String() string {
	switch k {
	case KindResourcePicker:
		return "resource picker"
	case KindSearchPicker:
		return "search picker"
	case KindParamForm:
		return "parameter form"
	case KindResultTable:
		return "result table"
	case KindLinkPicker:
		return "link picker"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Screen is one entry of the navigation stack. Which fields are meaningful
// depends on Kind: every screen past the resource picker carries Resource,
// a parameter form carries Search, a result table carries Title and Rows,
// and a link picker carries the selected Row.
type Screen struct {
	Kind     Kind
	Resource types.ResourceID
	Search   types.SearchID
	Title    string
	Rows     []query.Row
	Row      *query.Row
}

// Session drives a drilling session over a shared catalog and executor. It
// is single-threaded by design: one event loop owns it and blocks on user
// input between transitions.
type Session struct {
	cat   *catalog.Catalog
	exec  *query.Executor
	stack []Screen
}

// NewSession creates a session with the resource picker as its initial
// screen.
func NewSession(cat *catalog.Catalog, exec *query.Executor) *Session {
	s := &Session{cat: cat, exec: exec}
	s.push(Screen{Kind: KindResourcePicker})
	return s
}

// Current returns the active screen, or nil after the session has ended.
func (s *Session) Current() *Screen {
	if len(s.stack) == 0 {
		return nil
	}
	return &s.stack[len(s.stack)-1]
}

// Depth returns the number of screens on the stack.
func (s *Session) Depth() int { return len(s.stack) }

// Done reports whether the session has ended (the stack emptied).
func (s *Session) Done() bool { return len(s.stack) == 0 }

// Back pops the active screen, restoring the previous one from stored data
// without re-querying. Popping the last screen ends the session.
func (s *Session) Back() {
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Catalog exposes the session's shared, read-only catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// PickResource pushes the search picker for the chosen resource.
func (s *Session) PickResource(id types.ResourceID) error {
	if s.cat.Resource(id) == nil {
		return fmt.Errorf("resource %s: %w", id, types.ErrNotFound)
	}
	s.push(Screen{Kind: KindSearchPicker, Resource: id})
	return nil
}

// PickSearch pushes the parameter form for the chosen search.
func (s *Session) PickSearch(id types.SearchID) error {
	cur := s.Current()
	if cur == nil || cur.Kind != KindSearchPicker {
		return fmt.Errorf("no search picker active")
	}
	if s.cat.Search(cur.Resource, id) == nil {
		return fmt.Errorf("search %s: %w", id, types.ErrNotFound)
	}
	s.push(Screen{Kind: KindParamForm, Resource: cur.Resource, Search: id})
	return nil
}

// SubmitParams executes the active parameter form's search with the given
// parameter strings and pushes the result table. On any parameter or
// database error the form stays active.
func (s *Session) SubmitParams(ctx context.Context, values []string) error {
	cur := s.Current()
	if cur == nil || cur.Kind != KindParamForm {
		return fmt.Errorf("no parameter form active")
	}

	resource := s.cat.Resource(cur.Resource)
	search := s.cat.Search(cur.Resource, cur.Search)

	rows, err := s.exec.Run(ctx, search, values)
	if err != nil {
		return err
	}

	items := make([]string, len(search.Params))
	for i, p := range search.Params {
		items[i] = p.Name + "=" + values[i]
	}
	title := fmt.Sprintf("%s / %s (%s)", resource.Name, cur.Search, strings.Join(items, ", "))

	s.push(Screen{Kind: KindResultTable, Resource: cur.Resource, Title: title, Rows: rows})
	return nil
}

// PickRow pushes the link picker for the chosen row of the active result
// table.
func (s *Session) PickRow(idx int) error {
	cur := s.Current()
	if cur == nil || cur.Kind != KindResultTable {
		return fmt.Errorf("no result table active")
	}
	if idx < 0 || idx >= len(cur.Rows) {
		return fmt.Errorf("row %d out of range", idx)
	}
	row := cur.Rows[idx]
	s.push(Screen{Kind: KindLinkPicker, Resource: cur.Resource, Row: &row})
	return nil
}

// FollowLink resolves the named link against the picked row, executes the
// target search and pushes its result table. On any link or database error
// the link picker stays active and the source row is untouched.
func (s *Session) FollowLink(ctx context.Context, id types.LinkID) error {
	cur := s.Current()
	if cur == nil || cur.Kind != KindLinkPicker {
		return fmt.Errorf("no link picker active")
	}
	if s.cat.Link(cur.Resource, id) == nil {
		return fmt.Errorf("link %s: %w", id, types.ErrNotFound)
	}

	res, err := link.Resolve(s.cat, cur.Resource, id, cur.Row)
	if err != nil {
		return err
	}

	rows, err := s.exec.RunBound(ctx, res.Search, res.Params)
	if err != nil {
		return err
	}

	s.push(Screen{Kind: KindResultTable, Resource: res.Target, Title: res.Title, Rows: rows})
	return nil
}

func (s *Session) push(scr Screen) {
	s.stack = append(s.stack, scr)
}
