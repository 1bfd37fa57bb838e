package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/and161185/taskdesk/internal/api"
	"github.com/and161185/taskdesk/internal/config"
	"github.com/and161185/taskdesk/internal/errs"
	"github.com/and161185/taskdesk/internal/model"
	"github.com/and161185/taskdesk/internal/notify"
	"github.com/and161185/taskdesk/internal/repository"
	"github.com/and161185/taskdesk/internal/repository/filekv"
	"github.com/and161185/taskdesk/internal/repository/sqlite"
	"github.com/and161185/taskdesk/internal/service"
	"github.com/and161185/taskdesk/internal/session"
	"github.com/and161185/taskdesk/internal/theme"
)

// app is the wired client: storage, session, API gateway and services.
type app struct {
	cfg *config.Config
	log *zap.Logger

	stdin io.Reader
	in    *bufio.Reader
	out   io.Writer

	kv     repository.KVRepository
	closer io.Closer

	sess   *session.Store
	theme  *theme.Theme
	note   *notify.Notifier
	client *api.Client // nil when no API base URL is configured

	auth   service.AuthService
	pager  *service.Pager
	tasks  *service.TaskService
	editor *service.Editor
}

func openStorage(ctx context.Context, cfg *config.Config) (repository.KVRepository, io.Closer, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return repository.NewMemory(), nil, nil
	case config.StorageSQLite:
		r, err := sqlite.Open(ctx, cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	default:
		return filekv.New(cfg.DataDir), nil, nil
	}
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	kv, closer, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}
	a := &app{
		cfg:    cfg,
		log:    log,
		stdin:  stdin,
		in:     bufio.NewReader(stdin),
		out:    stdout,
		kv:     kv,
		closer: closer,
	}
	a.sess = session.New(kv, log)
	if id, ok := a.sess.Restore(ctx); ok {
		log.Debug("session restored", zap.String("username", id.Username))
	}
	a.theme = theme.Load(ctx, kv, log)
	a.note = notify.New(stderr, log, notify.WithAuthFailureHook(a.sess.Logout))

	if cfg.APIBaseURL != "" {
		client, err := api.New(cfg.APIBaseURL, a.sess, log, api.WithTimeout(cfg.Timeout))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.client = client
		a.auth = service.NewAuthService(client, a.sess, log)
		a.pager = service.NewPager(client, log, cfg.PageSize)
		a.tasks = service.NewTaskService(client, a.pager, log)
		a.editor = service.NewEditor(a.tasks)
	}
	return a, nil
}

func (a *app) Close() {
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.log.Warn("close storage", zap.Error(err))
		}
	}
}

func (a *app) requireAPI() error {
	if a.client == nil {
		return usageError(a.cfg.RequireAPI().Error())
	}
	return nil
}

// requireSession gates the task screens behind a signed-in identity.
func (a *app) requireSession(op string) (model.Identity, error) {
	if err := a.requireAPI(); err != nil {
		return model.Identity{}, err
	}
	id, ok := a.sess.Identity()
	if !ok {
		return model.Identity{}, &errs.Error{Kind: errs.ErrAuth, Op: op, Message: "login required"}
	}
	return id, nil
}

// readLine reads one line from stdin without the trailing newline.
func (a *app) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// prompt asks for a value, returning def on an empty answer.
func (a *app) prompt(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(a.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(a.out, "%s: ", label)
	}
	v, err := a.readLine()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		return def, nil
	}
	return v, nil
}

// password reads a secret, hiding input when stdin is a terminal.
func (a *app) password(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return a.readLine()
}

// confirm asks a yes/no question; only y or yes proceeds.
func (a *app) confirm(q string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", q)
	v, err := a.readLine()
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes":
		return true
	}
	return false
}
