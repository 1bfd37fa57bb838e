package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/and161185/taskdesk/internal/model"
	"github.com/and161185/taskdesk/internal/notify"
	"github.com/and161185/taskdesk/internal/service"
)

const shellHelp = `commands:
  page N         go to page N (page strip)
  grid P S       grid paginator event: 0-based page P, page size S
  size N         change page size (returns to page 1)
  next | prev    move one page
  reload         re-fetch the current page
  add            create a task
  edit ID        edit a task on this page
  rm ID          delete a task
  theme          toggle dark mode
  logout         sign out and leave
  help | quit`

// shell runs the interactive dashboard until quit, EOF or the session ends.
func (a *app) shell(ctx context.Context) error {
	id, err := a.requireSession("list tasks")
	if err != nil {
		return err
	}
	if err := a.pager.Load(ctx, 1, a.pager.State().Size); err != nil {
		return err
	}
	if err := a.render(id); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(a.out, "td> ")
		line, err := a.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil {
			return err
		}
		f := strings.Fields(line)
		if len(f) == 0 {
			continue
		}

		quit, redraw, err := a.shellCommand(ctx, f[0], f[1:])
		var ue usageError
		switch {
		case errors.As(err, &ue):
			fmt.Fprintln(a.out, ue.Error())
			redraw = false
		case err != nil:
			a.note.Error(ctx, err, shellFallback(f[0]))
		}
		if quit {
			return nil
		}
		cur, ok := a.sess.Identity()
		if !ok {
			fmt.Fprintln(a.out, "session ended; sign in again")
			return nil
		}
		if redraw {
			if err := a.render(cur); err != nil {
				return err
			}
		}
	}
}

func shellFallback(cmd string) string {
	switch cmd {
	case "add", "edit":
		return notify.SaveFailed
	case "rm":
		return notify.DeleteFailed
	}
	return notify.FetchFailed
}

// shellCommand runs one line. redraw is set when the dashboard should be
// printed again.
func (a *app) shellCommand(ctx context.Context, cmd string, args []string) (quit, redraw bool, err error) {
	arg := func(i int) (int, error) {
		if len(args) <= i {
			return 0, usageError(cmd + ": missing argument")
		}
		n, err := strconv.Atoi(args[i])
		if err != nil {
			return 0, usageError(fmt.Sprintf("%s: %q is not a number", cmd, args[i]))
		}
		return n, nil
	}

	switch cmd {
	case "quit", "exit", "q":
		return true, false, nil
	case "help", "?":
		fmt.Fprintln(a.out, shellHelp)
		return false, false, nil
	case "page":
		n, err := arg(0)
		if err != nil {
			return false, false, err
		}
		return false, true, a.pager.StripChange(ctx, n)
	case "grid":
		p, err := arg(0)
		if err != nil {
			return false, false, err
		}
		s, err := arg(1)
		if err != nil {
			return false, false, err
		}
		return false, true, a.pager.GridChange(ctx, p, s)
	case "size":
		n, err := arg(0)
		if err != nil {
			return false, false, err
		}
		return false, true, a.pager.SetPageSize(ctx, n)
	case "next":
		return false, true, a.pager.Next(ctx)
	case "prev":
		return false, true, a.pager.Prev(ctx)
	case "reload":
		return false, true, a.pager.Reload(ctx)
	case "add":
		a.editor.BeginCreate()
		return false, true, a.shellForm(ctx)
	case "edit":
		if len(args) < 1 {
			return false, false, usageError("edit: missing task id")
		}
		t, ok := findTask(a.pager.Tasks(), args[0])
		if !ok {
			return false, false, usageError(fmt.Sprintf("edit: task %s is not on this page", args[0]))
		}
		a.editor.BeginEdit(t)
		return false, true, a.shellForm(ctx)
	case "rm":
		if len(args) < 1 {
			return false, false, usageError("rm: missing task id")
		}
		_, err := a.tasks.Delete(ctx, args[0], a.confirm)
		return false, true, err
	case "theme":
		return false, true, a.cmdTheme(ctx)
	case "logout":
		a.sess.Logout(ctx)
		return true, false, nil
	}
	return false, false, usageError(fmt.Sprintf("unknown command %q (try help)", cmd))
}

// shellForm fills the open editor form from prompts and saves it. An empty
// title at the first prompt cancels.
func (a *app) shellForm(ctx context.Context) error {
	d := a.editor.Form()
	title, err := a.prompt("Title", d.Title)
	if err != nil {
		a.editor.Cancel()
		return err
	}
	if strings.TrimSpace(title) == "" {
		a.editor.Cancel()
		fmt.Fprintln(a.out, "cancelled")
		return nil
	}
	desc, err := a.prompt("Description", d.Description)
	if err != nil {
		a.editor.Cancel()
		return err
	}
	status, err := a.prompt("Status (Pending/Completed)", string(d.Status))
	if err != nil {
		a.editor.Cancel()
		return err
	}
	_, err = a.editor.Save(ctx, model.Draft{Title: title, Description: desc, Status: model.Status(status)})
	if err != nil && !errors.Is(err, service.ErrReloadFailed) {
		a.editor.Cancel()
	}
	return err
}
