// Command td is a terminal client for the task manager REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/and161185/taskdesk/internal/config"
	"github.com/and161185/taskdesk/internal/logging"
	"github.com/and161185/taskdesk/internal/notify"
)

func usage(w io.Writer) {
	fmt.Fprintf(w, `td CLI
Usage:
  td [-api URL] [-storage file|sqlite|memory] [-data-dir DIR] [-config FILE]
     [-timeout 30s] [-page-size 5] [-log-level warn] [-debug] <cmd> [args]

Commands:
  version
  signup   -u <username> -e <email> [-p <password>] [-role user|admin]
  signin   -e <email> [-p <password>]               (saves token)
  logout
  whoami
  list     [-page N] [-limit 5|10|15|20]
  add      -title T -desc D [-status Pending|Completed]
  edit     -id ID [-page N] [-title T] [-desc D] [-status S]
  rm       -id ID [-y]
  theme                                             (toggle dark mode)
  shell                                             (interactive dashboard)
`)
}

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one td invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, rest, err := config.Load(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		usage(stderr)
		return 2
	}
	if len(rest) < 1 {
		usage(stderr)
		return 2
	}
	cmd, cmdArgs := rest[0], rest[1:]

	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "td %s (%s)\n", version, buildDate)
		return 0
	case "help":
		usage(stdout)
		return 0
	}

	log, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer func() { _ = log.Sync() }()

	a, err := newApp(ctx, cfg, log, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer a.Close()

	var cmdErr error
	switch cmd {
	case "signup":
		cmdErr = a.cmdSignUp(ctx, cmdArgs)
	case "signin", "login":
		cmdErr = a.cmdSignIn(ctx, cmdArgs)
	case "logout":
		cmdErr = a.cmdLogout(ctx)
	case "whoami":
		cmdErr = a.cmdWhoami()
	case "list":
		cmdErr = a.cmdList(ctx, cmdArgs)
	case "add":
		cmdErr = a.cmdAdd(ctx, cmdArgs)
	case "edit":
		cmdErr = a.cmdEdit(ctx, cmdArgs)
	case "rm":
		cmdErr = a.cmdRemove(ctx, cmdArgs)
	case "theme":
		cmdErr = a.cmdTheme(ctx)
	case "shell":
		cmdErr = a.shell(ctx)
	default:
		usage(stderr)
		return 2
	}
	if cmdErr != nil {
		var ue usageError
		if errors.As(cmdErr, &ue) {
			fmt.Fprintln(stderr, ue.Error())
			return 2
		}
		a.note.Error(ctx, cmdErr, fallbackFor(cmd))
		return 1
	}
	return 0
}

// usageError is a bad command line; it is printed as is.
type usageError string

func (e usageError) Error() string { return string(e) }

func fallbackFor(cmd string) string {
	switch cmd {
	case "signin", "login":
		return notify.LoginFailed
	case "signup":
		return notify.RegistrationFailed
	case "list", "shell":
		return notify.FetchFailed
	case "add", "edit":
		return notify.SaveFailed
	case "rm":
		return notify.DeleteFailed
	}
	return ""
}
