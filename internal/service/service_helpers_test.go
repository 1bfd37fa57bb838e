package service

import (
	"context"
	"sync"

	"github.com/and161185/taskdesk/internal/model"
)

type listCall struct{ page, limit int }

// fakeTasks is a scripted task backend.
type fakeTasks struct {
	mu sync.Mutex

	// pages answers ListTasks; nil means an empty single page.
	pages func(page, limit int) (model.TaskPage, error)
	// gates block ListTasks for a page until closed.
	gates   map[int]chan struct{}
	started chan int

	createErr, updateErr, deleteErr error

	lists     []listCall
	created   []model.Draft
	updated   map[string]model.Draft
	deleted   []string
	mutations int
}

var (
	_ TaskLister  = (*fakeTasks)(nil)
	_ TaskMutator = (*fakeTasks)(nil)
)

func (f *fakeTasks) ListTasks(_ context.Context, page, limit int) (model.TaskPage, error) {
	f.mu.Lock()
	f.lists = append(f.lists, listCall{page, limit})
	gate := f.gates[page]
	pages := f.pages
	started := f.started
	f.mu.Unlock()

	if started != nil {
		started <- page
	}
	if gate != nil {
		<-gate
	}
	if pages == nil {
		return model.TaskPage{Tasks: []model.Task{}, TotalPages: 1}, nil
	}
	return pages(page, limit)
}

func (f *fakeTasks) CreateTask(_ context.Context, d model.Draft) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++
	if f.createErr != nil {
		return model.Task{}, f.createErr
	}
	f.created = append(f.created, d)
	return model.Task{ID: "new", Title: d.Title, Description: d.Description, Status: d.Status}, nil
}

func (f *fakeTasks) UpdateTask(_ context.Context, id string, d model.Draft) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++
	if f.updateErr != nil {
		return model.Task{}, f.updateErr
	}
	if f.updated == nil {
		f.updated = map[string]model.Draft{}
	}
	f.updated[id] = d
	return model.Task{ID: id, Title: d.Title, Description: d.Description, Status: d.Status}, nil
}

func (f *fakeTasks) DeleteTask(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTasks) listCalls() []listCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]listCall(nil), f.lists...)
}

func (f *fakeTasks) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations
}

// numbered builds n tasks with ids prefix-a, prefix-b and so on.
func numbered(prefix string, n int) []model.Task {
	out := make([]model.Task, n)
	for i := range out {
		id := prefix + "-" + string(rune('a'+i))
		out[i] = model.Task{ID: id, Title: "Task " + id, Description: "d", Status: model.StatusPending}
	}
	return out
}

// sliced serves all as consecutive pages of limit tasks.
func sliced(all []model.Task) func(page, limit int) (model.TaskPage, error) {
	return func(page, limit int) (model.TaskPage, error) {
		total := (len(all) + limit - 1) / limit
		lo := (page - 1) * limit
		if lo > len(all) {
			lo = len(all)
		}
		hi := lo + limit
		if hi > len(all) {
			hi = len(all)
		}
		return model.TaskPage{Tasks: append([]model.Task{}, all[lo:hi]...), TotalPages: total}, nil
	}
}
