package service

import (
	"context"
	"errors"

	"github.com/and161185/taskdesk/internal/errs"
	"github.com/and161185/taskdesk/internal/model"
)

// Editor holds the single pending edit: closed, creating a new task, or
// editing an existing one. Cancel or a successful Save clears it.
type Editor struct {
	tasks   *TaskService
	open    bool
	editing *model.Task
}

// NewEditor returns a closed editor.
func NewEditor(tasks *TaskService) *Editor { return &Editor{tasks: tasks} }

// BeginCreate opens the form in create mode.
func (e *Editor) BeginCreate() {
	e.open = true
	e.editing = nil
}

// BeginEdit opens the form in update mode for t.
func (e *Editor) BeginEdit(t model.Task) {
	e.open = true
	e.editing = &t
}

// Open reports whether a form is open.
func (e *Editor) Open() bool { return e.open }

// Editing returns the task under edit, if in update mode.
func (e *Editor) Editing() (model.Task, bool) {
	if !e.open || e.editing == nil {
		return model.Task{}, false
	}
	return *e.editing, true
}

// Form returns the initial field values of the open form.
func (e *Editor) Form() model.Draft {
	if t, ok := e.Editing(); ok {
		d := model.DraftOf(t)
		if d.Status == "" {
			d.Status = model.StatusPending
		}
		return d
	}
	return model.Draft{Status: model.StatusPending}
}

// Cancel discards the pending edit.
func (e *Editor) Cancel() {
	e.open = false
	e.editing = nil
}

// Save submits d as a create or an update depending on the mode. The form
// stays open if the server rejects the change so it can be corrected.
func (e *Editor) Save(ctx context.Context, d model.Draft) (model.Task, error) {
	if !e.open {
		return model.Task{}, errs.Validation("save task", "", "no task form is open")
	}
	var (
		t   model.Task
		err error
	)
	if cur, ok := e.Editing(); ok {
		t, err = e.tasks.Update(ctx, cur.ID, d)
	} else {
		t, err = e.tasks.Create(ctx, d)
	}
	if err == nil || errors.Is(err, ErrReloadFailed) {
		e.Cancel()
	}
	return t, err
}
