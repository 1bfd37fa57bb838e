package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/taskdesk/internal/errs"
	"github.com/and161185/taskdesk/internal/model"
)

// TaskLister fetches one server page of tasks.
type TaskLister interface {
	ListTasks(ctx context.Context, page, limit int) (model.TaskPage, error)
}

// GridModel is the page state as seen by a grid paginator (0-based page).
type GridModel struct {
	Page      int
	PageSize  int
	RowCount  int
	SizeOpts  []int
	IsLoading bool
}

// StripModel is the page state as seen by a page-strip paginator (1-based page).
type StripModel struct {
	Count int
	Page  int
}

// Pager owns the authoritative PageState and the Task Collection of the
// current page. Both paginator UIs call into it and render projections of it.
//
// Every load is stamped with a sequence number; a response that is not for
// the most recent load is discarded so a slow earlier page never overwrites
// a newer one.
type Pager struct {
	api TaskLister
	log *zap.Logger

	mu      sync.Mutex
	state   model.PageState
	tasks   []model.Task
	loading bool
	seq     uint64
}

// NewPager returns a Pager at page 1 with the given page size
// (model.DefaultPageSize if size is not an offered option).
func NewPager(api TaskLister, log *zap.Logger, size int) *Pager {
	if log == nil {
		log = zap.NewNop()
	}
	if !model.ValidPageSize(size) {
		size = model.DefaultPageSize
	}
	return &Pager{
		api:   api,
		log:   log,
		state: model.PageState{Page: 1, Size: size, TotalPages: 1},
		tasks: []model.Task{},
	}
}

// Load fetches (page, size). On success it replaces the collection and the
// page state; on failure the previous state is kept unchanged.
func (p *Pager) Load(ctx context.Context, page, size int) error {
	const op = "load tasks"
	if page < 1 {
		return errs.Validation(op, "page", "page must be 1 or greater")
	}
	if !model.ValidPageSize(size) {
		return errs.Validation(op, "pageSize", fmt.Sprintf("page size must be one of %v", model.PageSizes))
	}

	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.loading = true
	p.mu.Unlock()

	res, err := p.api.ListTasks(ctx, page, size)

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.seq {
		p.log.Debug("dropping stale page", zap.Int("page", page), zap.Int("size", size), zap.Uint64("seq", seq), zap.Error(err))
		return nil
	}
	p.loading = false
	if err != nil {
		return err
	}

	tasks := res.Tasks
	if len(tasks) > size {
		p.log.Warn("server page exceeds page size", zap.Int("got", len(tasks)), zap.Int("size", size))
		tasks = tasks[:size]
	}
	p.tasks = append(make([]model.Task, 0, len(tasks)), tasks...)
	p.state = model.PageState{Page: page, Size: size, TotalPages: res.TotalPages}
	return nil
}

// normalize applies the page-size policy: a size change forces page 1.
func (p *Pager) normalize(page, size int) (int, int) {
	p.mu.Lock()
	cur := p.state.Size
	p.mu.Unlock()
	if size != cur {
		return 1, size
	}
	return page, size
}

// GridChange handles a grid paginator event (0-based page, explicit size).
func (p *Pager) GridChange(ctx context.Context, page0, size int) error {
	page, size := p.normalize(page0+1, size)
	return p.Load(ctx, page, size)
}

// StripChange handles a page-strip event (1-based page, current size).
func (p *Pager) StripChange(ctx context.Context, page int) error {
	st := p.State()
	return p.Load(ctx, page, st.Size)
}

// SetPageSize changes the page density; the view returns to page 1.
func (p *Pager) SetPageSize(ctx context.Context, size int) error {
	st := p.State()
	page, size := p.normalize(st.Page, size)
	return p.Load(ctx, page, size)
}

// Next moves the strip one page forward.
func (p *Pager) Next(ctx context.Context) error {
	st := p.State()
	if st.Page >= st.TotalPages {
		return errs.Validation("next page", "page", "already on the last page")
	}
	return p.StripChange(ctx, st.Page+1)
}

// Prev moves the strip one page back.
func (p *Pager) Prev(ctx context.Context) error {
	st := p.State()
	if st.Page <= 1 {
		return errs.Validation("previous page", "page", "already on the first page")
	}
	return p.StripChange(ctx, st.Page-1)
}

// Reload re-fetches the current page at the current size. An emptied last
// page is shown as is; the Pager does not navigate away from it.
func (p *Pager) Reload(ctx context.Context) error {
	st := p.State()
	return p.Load(ctx, st.Page, st.Size)
}

// State returns the current page state.
func (p *Pager) State() model.PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Tasks returns a copy of the current page's tasks.
func (p *Pager) Tasks() []model.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Task(nil), p.tasks...)
}

// Loading reports whether the most recent load is still in flight.
func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Grid projects the page state for a grid paginator.
func (p *Pager) Grid() GridModel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return GridModel{
		Page:      p.state.Page - 1,
		PageSize:  p.state.Size,
		RowCount:  p.state.TotalPages * p.state.Size,
		SizeOpts:  append([]int(nil), model.PageSizes...),
		IsLoading: p.loading,
	}
}

// Strip projects the page state for a page-strip paginator.
func (p *Pager) Strip() StripModel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return StripModel{Count: p.state.TotalPages, Page: p.state.Page}
}
