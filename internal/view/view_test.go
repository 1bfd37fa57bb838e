package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/taskdesk/internal/model"
	"github.com/and161185/taskdesk/internal/service"
)

func TestRoleTitleAndDate(t *testing.T) {
	assert.Equal(t, "Admin", RoleTitle(model.RoleAdmin))
	assert.Equal(t, "User", RoleTitle(model.RoleUser))
	assert.Equal(t, "05/03/2026", FormatDate(time.Date(2026, 3, 5, 23, 0, 0, 0, time.UTC)))
	assert.Empty(t, FormatDate(time.Time{}))
}

func TestNavbar(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Navbar(&buf, &model.Identity{Username: "alice", Role: model.RoleAdmin}, "Switch to Dark Mode"))
	assert.Equal(t, "Task Manager (Admin) | Welcome, alice | logout | theme: Switch to Dark Mode\n", buf.String())

	buf.Reset()
	require.NoError(t, Navbar(&buf, nil, ""))
	assert.Equal(t, "Task Manager | signin | signup\n", buf.String())
}

func TestDashboard_AdminSeesDelete(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Title: "Write report", Description: "Q1", Status: model.StatusPending, CreatedDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	grid := service.GridModel{Page: 1, PageSize: 5, RowCount: 15, SizeOpts: model.PageSizes}
	strip := service.StripModel{Count: 3, Page: 2}

	var buf bytes.Buffer
	require.NoError(t, Dashboard(&buf, model.Identity{Username: "alice", Role: model.RoleAdmin}, tasks, grid, strip))
	out := buf.String()
	assert.Contains(t, out, "Dashboard - alice's Tasks\n")
	assert.Contains(t, out, "Admin: You can delete any task.")
	assert.Contains(t, out, "Total Pages: 3")
	assert.Contains(t, out, "02/01/2026")
	assert.Contains(t, out, "Edit Delete")
	assert.Contains(t, out, "Rows per page: 5 (5/10/15/20)  6-10 of 15")
	assert.Contains(t, out, "< 1 [2] 3 >")
}

func TestDashboard_UserHasNoDelete(t *testing.T) {
	tasks := []model.Task{{ID: "1", Title: "t", Description: "d", Status: model.StatusCompleted}}
	var buf bytes.Buffer
	require.NoError(t, Dashboard(&buf, model.Identity{Username: "bob", Role: model.RoleUser}, tasks,
		service.GridModel{PageSize: 5, RowCount: 5}, service.StripModel{Count: 1, Page: 1}))
	out := buf.String()
	assert.NotContains(t, out, "Admin:")
	assert.NotContains(t, out, "Delete")
	assert.Contains(t, out, "Edit")
}

func TestTable_EmptyAndLoading(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, nil, false, false))
	assert.Contains(t, buf.String(), "No rows")

	buf.Reset()
	require.NoError(t, Table(&buf, nil, false, true))
	assert.Contains(t, buf.String(), "loading...")
}

func TestTable_ClipsLongCells(t *testing.T) {
	var buf bytes.Buffer
	long := strings.Repeat("ж", 60)
	require.NoError(t, Table(&buf, []model.Task{{ID: "1", Title: long, Description: "d"}}, false, false))
	assert.Contains(t, buf.String(), strings.Repeat("ж", 37)+"...")
	assert.NotContains(t, buf.String(), long)
}

func TestGridFooter_Empty(t *testing.T) {
	assert.Equal(t, "Rows per page: 10 (5/10)  0-0 of 0", GridFooter(service.GridModel{PageSize: 10, SizeOpts: []int{5, 10}}))
}

func TestStripItems(t *testing.T) {
	assert.Empty(t, StripItems(0, 1))
	assert.Equal(t, []string{"[1]"}, StripItems(1, 1))
	assert.Equal(t, []string{"1", "...", "4", "[5]", "6", "...", "10"}, StripItems(10, 5))
	assert.Equal(t, []string{"[1]", "2", "...", "10"}, StripItems(10, 1))
	assert.Equal(t, []string{"1", "...", "9", "[10]"}, StripItems(10, 10))
	assert.Equal(t, "< >", StripLine(service.StripModel{}))
}
