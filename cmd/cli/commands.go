package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/and161185/taskdesk/internal/errs"
	"github.com/and161185/taskdesk/internal/model"
	"github.com/and161185/taskdesk/internal/notify"
	"github.com/and161185/taskdesk/internal/service"
	"github.com/and161185/taskdesk/internal/view"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usageError(fmt.Sprintf("%s: %v", fs.Name(), err))
	}
	return nil
}

func (a *app) alreadySignedIn() bool {
	id, ok := a.sess.Identity()
	if ok {
		fmt.Fprintf(a.out, "already signed in as %s (%s)\n", id.Username, view.RoleTitle(id.Role))
	}
	return ok
}

func (a *app) cmdSignUp(ctx context.Context, args []string) error {
	fs := newFlagSet("signup")
	u := fs.String("u", "", "username")
	e := fs.String("e", "", "email")
	p := fs.String("p", "", "password")
	role := fs.String("role", string(model.RoleUser), "user or admin")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireAPI(); err != nil {
		return err
	}
	if a.alreadySignedIn() {
		return nil
	}
	if *p == "" {
		pw, err := a.password("Password")
		if err != nil {
			return err
		}
		*p = pw
	}
	id, err := a.auth.SignUp(ctx, model.Registration{Username: *u, Email: *e, Password: *p, Role: model.Role(*role)})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered and signed in as %s (%s)\n", id.Username, view.RoleTitle(id.Role))
	return nil
}

func (a *app) cmdSignIn(ctx context.Context, args []string) error {
	fs := newFlagSet("signin")
	e := fs.String("e", "", "email")
	p := fs.String("p", "", "password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireAPI(); err != nil {
		return err
	}
	if a.alreadySignedIn() {
		return nil
	}
	if *p == "" {
		pw, err := a.password("Password")
		if err != nil {
			return err
		}
		*p = pw
	}
	id, err := a.auth.SignIn(ctx, *e, *p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s\n", id.Username)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	a.sess.Logout(ctx)
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func (a *app) cmdWhoami() error {
	id, ok := a.sess.Identity()
	if !ok {
		return view.Navbar(a.out, nil, a.theme.ToggleLabel())
	}
	if err := view.Navbar(a.out, &id, a.theme.ToggleLabel()); err != nil {
		return err
	}
	if id.Email != "" {
		fmt.Fprintf(a.out, "email: %s\n", id.Email)
	}
	if !id.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "session expires: %s\n", id.ExpiresAt.Local().Format(time.RFC1123))
	}
	if a.client != nil {
		fmt.Fprintf(a.out, "api: %s\n", a.client.BaseURL())
	}
	return nil
}

func (a *app) render(id model.Identity) error {
	if err := view.Navbar(a.out, &id, a.theme.ToggleLabel()); err != nil {
		return err
	}
	return view.Dashboard(a.out, id, a.pager.Tasks(), a.pager.Grid(), a.pager.Strip())
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	fs := newFlagSet("list")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", a.cfg.PageSize, "page size")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := a.requireSession("list tasks")
	if err != nil {
		return err
	}
	if err := a.pager.Load(ctx, *page, *limit); err != nil {
		return err
	}
	return a.render(id)
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	fs := newFlagSet("add")
	title := fs.String("title", "", "title")
	desc := fs.String("desc", "", "description")
	status := fs.String("status", string(model.StatusPending), "Pending or Completed")
	if err := parse(fs, args); err != nil {
		return err
	}
	if _, err := a.requireSession("create task"); err != nil {
		return err
	}
	a.editor.BeginCreate()
	t, err := a.editor.Save(ctx, model.Draft{Title: *title, Description: *desc, Status: model.Status(*status)})
	if err := a.settle(ctx, err); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created task %s\n", t.ID)
	return nil
}

func (a *app) cmdEdit(ctx context.Context, args []string) error {
	fs := newFlagSet("edit")
	id := fs.String("id", "", "task id")
	page := fs.Int("page", 1, "page the task is listed on")
	title := fs.String("title", "", "new title")
	desc := fs.String("desc", "", "new description")
	status := fs.String("status", "", "Pending or Completed")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usageError("edit: need -id")
	}
	if _, err := a.requireSession("update task"); err != nil {
		return err
	}
	if err := a.pager.StripChange(ctx, *page); err != nil {
		return err
	}
	cur, ok := findTask(a.pager.Tasks(), *id)
	if !ok {
		return &errs.Error{Kind: errs.ErrNotFound, Op: "update task", Message: fmt.Sprintf("task %s is not on page %d", *id, *page)}
	}

	a.editor.BeginEdit(cur)
	d := a.editor.Form()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			d.Title = *title
		case "desc":
			d.Description = *desc
		case "status":
			d.Status = model.Status(*status)
		}
	})
	t, err := a.editor.Save(ctx, d)
	if err := a.settle(ctx, err); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "updated task %s\n", t.ID)
	return nil
}

func (a *app) cmdRemove(ctx context.Context, args []string) error {
	fs := newFlagSet("rm")
	id := fs.String("id", "", "task id")
	yes := fs.Bool("y", false, "do not ask for confirmation")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usageError("rm: need -id")
	}
	if _, err := a.requireSession("delete task"); err != nil {
		return err
	}
	confirm := a.confirm
	if *yes {
		confirm = nil
	}
	done, err := a.tasks.Delete(ctx, *id, confirm)
	if err := a.settle(ctx, err); err != nil {
		return err
	}
	if done {
		fmt.Fprintf(a.out, "deleted task %s\n", *id)
	}
	return nil
}

func (a *app) cmdTheme(ctx context.Context) error {
	m, err := a.theme.Toggle(ctx)
	if err != nil {
		return err
	}
	pal := a.theme.Palette()
	fmt.Fprintf(a.out, "theme: %s (primary %s, secondary %s)\n", m, pal.Primary, pal.Secondary)
	return nil
}

// settle reports a failed post-change reload without failing the change.
func (a *app) settle(ctx context.Context, err error) error {
	if errors.Is(err, service.ErrReloadFailed) {
		a.note.Error(ctx, err, notify.FetchFailed)
		return nil
	}
	return err
}

func findTask(tasks []model.Task, id string) (model.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}
