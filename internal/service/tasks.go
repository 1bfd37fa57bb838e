package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/taskdesk/internal/errs"
	"github.com/and161185/taskdesk/internal/model"
)

// DeletePrompt is the confirmation question shown before deleting a task.
const DeletePrompt = "Delete this task?"

// ErrReloadFailed marks a mutation that succeeded on the server but whose
// follow-up page reload did not.
var ErrReloadFailed = errors.New("reload after change failed")

// TaskMutator performs server-side task changes.
type TaskMutator interface {
	CreateTask(ctx context.Context, d model.Draft) (model.Task, error)
	UpdateTask(ctx context.Context, id string, d model.Draft) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Reloader re-fetches the current page.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ConfirmFunc is a yes/no gate; it returns true to proceed.
type ConfirmFunc func(prompt string) bool

// TaskService applies task mutations. The visible collection only changes
// through the reload that follows a confirmed server success.
type TaskService struct {
	api   TaskMutator
	pager Reloader
	log   *zap.Logger
}

// NewTaskService constructs a TaskService.
func NewTaskService(api TaskMutator, pager Reloader, log *zap.Logger) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{api: api, pager: pager, log: log}
}

// ValidateDraft checks the client-side form rules and normalizes the status.
func ValidateDraft(op string, d model.Draft) (model.Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Title == "" {
		return d, errs.Validation(op, "title", "title is required")
	}
	if d.Description == "" {
		return d, errs.Validation(op, "description", "description is required")
	}
	st, ok := model.ParseStatus(string(d.Status))
	if !ok {
		return d, errs.Validation(op, "status", fmt.Sprintf("status must be %s or %s", model.StatusPending, model.StatusCompleted))
	}
	d.Status = st
	return d, nil
}

// Create validates d, creates it on the server and reloads the current page.
func (s *TaskService) Create(ctx context.Context, d model.Draft) (model.Task, error) {
	d, err := ValidateDraft("create task", d)
	if err != nil {
		return model.Task{}, err
	}
	t, err := s.api.CreateTask(ctx, d)
	if err != nil {
		return model.Task{}, err
	}
	s.log.Debug("task created", zap.String("id", t.ID))
	return t, s.reload(ctx)
}

// Update validates d, replaces task id on the server and reloads the current page.
func (s *TaskService) Update(ctx context.Context, id string, d model.Draft) (model.Task, error) {
	const op = "update task"
	if strings.TrimSpace(id) == "" {
		return model.Task{}, errs.Validation(op, "id", "task id is required")
	}
	d, err := ValidateDraft(op, d)
	if err != nil {
		return model.Task{}, err
	}
	t, err := s.api.UpdateTask(ctx, id, d)
	if err != nil {
		return model.Task{}, err
	}
	return t, s.reload(ctx)
}

// Delete asks confirm and, if accepted, deletes task id and reloads the
// current page. It reports whether the delete was performed. Authorization
// is the server's decision; a denial surfaces as errs.ErrForbidden.
func (s *TaskService) Delete(ctx context.Context, id string, confirm ConfirmFunc) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, errs.Validation("delete task", "id", "task id is required")
	}
	if confirm != nil && !confirm(DeletePrompt) {
		return false, nil
	}
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return false, err
	}
	s.log.Debug("task deleted", zap.String("id", id))
	return true, s.reload(ctx)
}

func (s *TaskService) reload(ctx context.Context) error {
	if err := s.pager.Reload(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return nil
}

// CanDelete reports whether the delete control is shown to id. This is a
// display convenience only; the server enforces the rule.
func CanDelete(id model.Identity) bool { return id.IsAdmin() }
