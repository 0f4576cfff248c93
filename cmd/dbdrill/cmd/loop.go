package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/solatis/dbdrill/internal/nav"
	"github.com/solatis/dbdrill/internal/types"
)

/*
 * Line-oriented session driver.
 *
 * The engine is presentation-agnostic; this driver is the minimal
 * collaborator that renders the current screen as plain text and turns input
 * lines into navigation transitions. "q" quits, "b" (or an empty line on a
 * picker) goes back, a shortcut letter or label picks an item, a number
 * picks a row. Recoverable errors are printed and the active screen stays.
 */

func runLoop(ctx context.Context, session *nav.Session, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)

	for !session.Done() {
		cur := session.Current()

		if cur.Kind == nav.KindParamForm {
			if err := promptParams(ctx, session, sc, out); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			continue
		}

		renderScreen(out, session)

		line, ok := readLine(sc)
		if !ok {
			return nil
		}
		switch line {
		case "q":
			return nil
		case "b", "":
			session.Back()
		default:
			if err := dispatch(ctx, session, line); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
	}
	return nil
}

func renderScreen(out io.Writer, session *nav.Session) {
	cur := session.Current()
	cat := session.Catalog()

	switch cur.Kind {
	case nav.KindResourcePicker:
		fmt.Fprintln(out, "Resources")
		labels := make([]string, 0)
		for _, id := range cat.Resources() {
			labels = append(labels, cat.Resource(id).Name)
		}
		renderPicker(out, labels)
	case nav.KindSearchPicker:
		fmt.Fprintf(out, "Search %s by...\n", cat.Resource(cur.Resource).Name)
		renderPicker(out, searchLabels(session))
	case nav.KindResultTable:
		fmt.Fprintf(out, "Query results: %s\n", cur.Title)
		renderTable(out, cur.Rows)
		fmt.Fprintln(out, "(row number to inspect, b = back, q = quit)")
	case nav.KindLinkPicker:
		renderRow(out, cur.Row)
		fmt.Fprintln(out, "Links")
		renderPicker(out, linkLabels(session))
	}
	fmt.Fprint(out, "> ")
}

func renderPicker(out io.Writer, labels []string) {
	shortcuts := assignShortcuts(labels)
	for i, label := range labels {
		if shortcuts[i].ok {
			fmt.Fprintf(out, "  [%c] %s\n", shortcuts[i].ch, label)
		} else {
			fmt.Fprintf(out, "      %s\n", label)
		}
	}
}

func dispatch(ctx context.Context, session *nav.Session, line string) error {
	cur := session.Current()
	cat := session.Catalog()

	switch cur.Kind {
	case nav.KindResourcePicker:
		ids := cat.Resources()
		labels := make([]string, len(ids))
		for i, id := range ids {
			labels[i] = cat.Resource(id).Name
		}
		i := pickIndex(labels, line)
		if i < 0 {
			return fmt.Errorf("no resource matching %q", line)
		}
		return session.PickResource(ids[i])
	case nav.KindSearchPicker:
		ids := cat.SearchNames(cur.Resource)
		i := pickIndex(searchLabels(session), line)
		if i < 0 {
			return fmt.Errorf("no search matching %q", line)
		}
		return session.PickSearch(ids[i])
	case nav.KindResultTable:
		idx, err := strconv.Atoi(line)
		if err != nil {
			return fmt.Errorf("expected a row number, got %q", line)
		}
		return session.PickRow(idx)
	case nav.KindLinkPicker:
		ids := cat.LinkNames(cur.Resource)
		i := pickIndex(linkLabels(session), line)
		if i < 0 {
			return fmt.Errorf("no link matching %q", line)
		}
		return session.FollowLink(ctx, ids[i])
	}
	return nil
}

// promptParams reads one value per declared parameter, then submits the
// form. A blank first prompt with "b" cancels back to the search picker.
func promptParams(ctx context.Context, session *nav.Session, sc *bufio.Scanner, out io.Writer) error {
	cur := session.Current()
	cat := session.Catalog()
	search := cat.Search(cur.Resource, cur.Search)

	fmt.Fprintf(out, "Search %s by %s\n", cat.Resource(cur.Resource).Name, cur.Search)

	values := make([]string, 0, len(search.Params))
	for _, p := range search.Params {
		if p.Type == types.ParamTypeNone {
			fmt.Fprintf(out, "%s: ", p.Name)
		} else {
			fmt.Fprintf(out, "%s (%s): ", p.Name, p.Type)
		}
		line, ok := readLine(sc)
		if !ok || (len(values) == 0 && line == "b") {
			session.Back()
			return nil
		}
		values = append(values, line)
	}

	return session.SubmitParams(ctx, values)
}

// pickIndex matches an input line against picker labels: exact label first,
// then the assigned shortcut letter.
func pickIndex(labels []string, line string) int {
	for i, label := range labels {
		if strings.EqualFold(label, line) {
			return i
		}
	}
	if len([]rune(line)) == 1 {
		c := []rune(strings.ToLower(line))[0]
		for i, s := range assignShortcuts(labels) {
			if s.ok && s.ch == c {
				return i
			}
		}
	}
	return -1
}

func searchLabels(session *nav.Session) []string {
	cur := session.Current()
	ids := session.Catalog().SearchNames(cur.Resource)
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = string(id)
	}
	return labels
}

func linkLabels(session *nav.Session) []string {
	cur := session.Current()
	ids := session.Catalog().LinkNames(cur.Resource)
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = string(id)
	}
	return labels
}

func readLine(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}
