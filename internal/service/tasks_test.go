package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/taskdesk/internal/errs"
	"github.com/and161185/taskdesk/internal/model"
)

func newTaskService(t *testing.T, api *fakeTasks) (*TaskService, *Pager) {
	t.Helper()
	p := NewPager(api, zaptest.NewLogger(t), 5)
	return NewTaskService(api, p, zaptest.NewLogger(t)), p
}

func yes(string) bool { return true }

func TestValidateDraft(t *testing.T) {
	d, err := ValidateDraft("create task", model.Draft{Title: "  a ", Description: " b"})
	require.NoError(t, err)
	require.Equal(t, model.Draft{Title: "a", Description: "b", Status: model.StatusPending}, d)

	for _, tc := range []struct {
		name  string
		in    model.Draft
		field string
	}{
		{"empty title", model.Draft{Title: "", Description: "x"}, "title"},
		{"blank title", model.Draft{Title: "   ", Description: "x"}, "title"},
		{"empty description", model.Draft{Title: "x"}, "description"},
		{"unknown status", model.Draft{Title: "x", Description: "y", Status: "Archived"}, "status"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateDraft("create task", tc.in)
			require.ErrorIs(t, err, errs.ErrValidation)
			var e *errs.Error
			require.True(t, errors.As(err, &e))
			require.Equal(t, tc.field, e.Field)
		})
	}
}

func TestCreate_ReloadsCurrentPage(t *testing.T) {
	api := &fakeTasks{pages: sliced(numbered("t", 12))}
	svc, p := newTaskService(t, api)
	require.NoError(t, p.StripChange(context.Background(), 2))

	got, err := svc.Create(context.Background(), model.Draft{Title: "New", Description: "D", Status: model.StatusCompleted})
	require.NoError(t, err)
	require.Equal(t, "new", got.ID)
	require.Equal(t, []model.Draft{{Title: "New", Description: "D", Status: model.StatusCompleted}}, api.created)
	require.Equal(t, []listCall{{2, 5}, {2, 5}}, api.listCalls())
	require.Equal(t, 2, p.State().Page)
}

func TestCreate_EmptyTitleNeverReachesNetwork(t *testing.T) {
	api := &fakeTasks{}
	svc, _ := newTaskService(t, api)

	_, err := svc.Create(context.Background(), model.Draft{Title: "", Description: "D"})
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Zero(t, api.mutationCount())
	require.Empty(t, api.listCalls())
}

func TestUpdate(t *testing.T) {
	api := &fakeTasks{pages: sliced(numbered("t", 3))}
	svc, _ := newTaskService(t, api)

	_, err := svc.Update(context.Background(), "", model.Draft{Title: "a", Description: "b"})
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = svc.Update(context.Background(), "t-a", model.Draft{Title: "", Description: "b"})
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Zero(t, api.mutationCount())

	got, err := svc.Update(context.Background(), "t-a", model.Draft{Title: "a", Description: "b", Status: model.StatusCompleted})
	require.NoError(t, err)
	require.Equal(t, model.StatusCompleted, got.Status)
	require.Contains(t, api.updated, "t-a")
	require.Len(t, api.listCalls(), 1)
}

func TestUpdate_ServerFailureSkipsReload(t *testing.T) {
	api := &fakeTasks{updateErr: errs.FromStatus("update task", 404, "Task not found")}
	svc, _ := newTaskService(t, api)

	_, err := svc.Update(context.Background(), "gone", model.Draft{Title: "a", Description: "b"})
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Empty(t, api.listCalls())
}

func TestDelete_LastTaskOnPageLeavesEmptyPage(t *testing.T) {
	deleted := false
	api := &fakeTasks{pages: func(page, limit int) (model.TaskPage, error) {
		if page != 2 {
			return model.TaskPage{Tasks: numbered("p", limit), TotalPages: 3}, nil
		}
		if deleted {
			return model.TaskPage{Tasks: []model.Task{}, TotalPages: 2}, nil
		}
		return model.TaskPage{Tasks: numbered("only", 1), TotalPages: 3}, nil
	}}
	svc, p := newTaskService(t, api)
	ctx := context.Background()
	require.NoError(t, p.StripChange(ctx, 2))
	require.Equal(t, model.PageState{Page: 2, Size: 5, TotalPages: 3}, p.State())

	ok, err := svc.Delete(ctx, "only-a", func(prompt string) bool {
		require.Equal(t, DeletePrompt, prompt)
		deleted = true
		return true
	})
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, model.PageState{Page: 2, Size: 5, TotalPages: 2}, p.State())
	require.Empty(t, p.Tasks())
	require.Equal(t, []listCall{{2, 5}, {2, 5}}, api.listCalls())
}

func TestDelete_ForbiddenLeavesCollectionUnchanged(t *testing.T) {
	api := &fakeTasks{
		pages:     sliced(numbered("t", 4)),
		deleteErr: errs.FromStatus("delete task", 403, "Access denied"),
	}
	svc, p := newTaskService(t, api)
	require.NoError(t, p.Reload(context.Background()))
	before := p.Tasks()

	ok, err := svc.Delete(context.Background(), "t-a", yes)
	require.ErrorIs(t, err, errs.ErrForbidden)
	require.False(t, ok)
	require.Equal(t, "Access denied", errs.Message(err))
	require.Equal(t, before, p.Tasks())
	require.Len(t, api.listCalls(), 1)
}

func TestDelete_Declined(t *testing.T) {
	api := &fakeTasks{}
	svc, _ := newTaskService(t, api)

	ok, err := svc.Delete(context.Background(), "t-a", func(string) bool { return false })
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, api.mutationCount())

	_, err = svc.Delete(context.Background(), " ", yes)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestMutation_ReloadFailureIsMarked(t *testing.T) {
	api := &fakeTasks{pages: func(int, int) (model.TaskPage, error) {
		return model.TaskPage{}, errs.FromTransport("list tasks", errors.New("connection refused"))
	}}
	svc, _ := newTaskService(t, api)

	ok, err := svc.Delete(context.Background(), "t-a", yes)
	require.True(t, ok)
	require.ErrorIs(t, err, ErrReloadFailed)
	require.ErrorIs(t, err, errs.ErrNetwork)
}

func TestCanDelete(t *testing.T) {
	require.True(t, CanDelete(model.Identity{Role: model.RoleAdmin}))
	require.False(t, CanDelete(model.Identity{Role: model.RoleUser}))
	require.False(t, CanDelete(model.Identity{}))
}
