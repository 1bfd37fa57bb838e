// Package view renders the application screens as plain text.
package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/and161185/taskdesk/internal/model"
	"github.com/and161185/taskdesk/internal/service"
)

// DateLayout is the DD/MM/YYYY form used in the task table.
const DateLayout = "02/01/2006"

const maxCell = 40

var titleCaser = cases.Title(language.English)

// RoleTitle capitalizes a role for display ("admin" -> "Admin").
func RoleTitle(r model.Role) string { return titleCaser.String(string(r)) }

// FormatDate renders t as DD/MM/YYYY, or "" for an unknown date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Navbar writes the title bar. id is nil when nobody is signed in.
func Navbar(w io.Writer, id *model.Identity, themeHint string) error {
	var b strings.Builder
	b.WriteString("Task Manager")
	if id != nil && id.Role != "" {
		fmt.Fprintf(&b, " (%s)", RoleTitle(id.Role))
	}
	if id != nil {
		fmt.Fprintf(&b, " | Welcome, %s | logout", id.Username)
	} else {
		b.WriteString(" | signin | signup")
	}
	if themeHint != "" {
		fmt.Fprintf(&b, " | theme: %s", themeHint)
	}
	_, err := fmt.Fprintln(w, b.String())
	return err
}

// Dashboard writes the task page for id.
func Dashboard(w io.Writer, id model.Identity, tasks []model.Task, grid service.GridModel, strip service.StripModel) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Dashboard - %s's Tasks\n", id.Username)
	if id.IsAdmin() {
		b.WriteString("Admin: You can delete any task.\n")
	}
	fmt.Fprintf(&b, "Total Pages: %d\n\n", strip.Count)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if err := Table(w, tasks, service.CanDelete(id), grid.IsLoading); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n%s\n", GridFooter(grid), StripLine(strip))
	return err
}

// Table writes the task grid.
func Table(w io.Writer, tasks []model.Task, canDelete, loading bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTitle\tDescription\tStatus\tCreated Date\tActions")
	actions := "Edit"
	if canDelete {
		actions = "Edit Delete"
	}
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, clip(t.Title), clip(t.Description), t.Status, FormatDate(t.CreatedDate), actions)
	}
	switch {
	case loading:
		fmt.Fprintln(tw, "loading...")
	case len(tasks) == 0:
		fmt.Fprintln(tw, "No rows")
	}
	return tw.Flush()
}

// GridFooter renders the grid paginator: rows per page and the visible range.
func GridFooter(g service.GridModel) string {
	from, to := 0, 0
	if g.RowCount > 0 {
		from = g.Page*g.PageSize + 1
		to = min((g.Page+1)*g.PageSize, g.RowCount)
	}
	opts := make([]string, len(g.SizeOpts))
	for i, n := range g.SizeOpts {
		opts[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("Rows per page: %d (%s)  %d-%d of %d", g.PageSize, strings.Join(opts, "/"), from, to, g.RowCount)
}

// StripLine renders the page strip with the current page bracketed.
func StripLine(s service.StripModel) string {
	items := StripItems(s.Count, s.Page)
	if len(items) == 0 {
		return "< >"
	}
	return "< " + strings.Join(items, " ") + " >"
}

// StripItems lists the page buttons: the first and last page, the pages
// around the current one, and "..." for gaps.
func StripItems(count, page int) []string {
	var out []string
	last := 0
	for i := 1; i <= count; i++ {
		if i != 1 && i != count && (i < page-1 || i > page+1) {
			continue
		}
		if last != 0 && i-last > 1 {
			out = append(out, "...")
		}
		label := strconv.Itoa(i)
		if i == page {
			label = "[" + label + "]"
		}
		out = append(out, label)
		last = i
	}
	return out
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= maxCell {
		return s
	}
	return string(r[:maxCell-3]) + "..."
}
