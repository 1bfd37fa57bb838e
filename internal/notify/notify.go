// Package notify is the single channel through which failures and status
// messages reach the user.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/taskdesk/internal/errs"
)

// Fallback texts used when the server supplies no message.
const (
	DefaultMessage     = "An unexpected error occurred"
	LoginFailed        = "Login failed"
	RegistrationFailed = "Registration failed"
	FetchFailed        = "Error fetching tasks"
	SaveFailed         = "Error saving task"
	DeleteFailed       = "Delete failed (Admin only)"
)

// Notifier writes user-facing messages to w.
type Notifier struct {
	mu     sync.Mutex
	w      io.Writer
	log    *zap.Logger
	onAuth func(context.Context)
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAuthFailureHook registers fn to run whenever an AuthFailure is reported.
// It is used to drop the session so the user must sign in again.
func WithAuthFailureHook(fn func(context.Context)) Option {
	return func(n *Notifier) { n.onAuth = fn }
}

func New(w io.Writer, log *zap.Logger, opts ...Option) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	n := &Notifier{w: w, log: log}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Text picks the message shown for err: the server or validation message if
// there is one, a transport description for network failures, then fallback,
// then DefaultMessage.
func Text(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := errs.Message(err); msg != "" {
		return msg
	}
	switch {
	case errors.Is(err, errs.ErrTimeout):
		return "The server did not respond in time"
	case errors.Is(err, errs.ErrNetwork):
		return "Cannot reach the server"
	}
	if fallback != "" {
		return fallback
	}
	return DefaultMessage
}

// Error reports err and returns the text that was shown.
func (n *Notifier) Error(ctx context.Context, err error, fallback string) string {
	if err == nil {
		return ""
	}
	text := Text(err, fallback)
	n.print("error: " + text)
	n.log.Debug("notified", zap.String("text", text), zap.Error(err))

	if errors.Is(err, errs.ErrAuth) && n.onAuth != nil {
		n.onAuth(ctx)
	}
	return text
}

// Info reports a status message.
func (n *Notifier) Info(format string, args ...any) {
	n.print(fmt.Sprintf(format, args...))
}

func (n *Notifier) print(line string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := fmt.Fprintln(n.w, line); err != nil {
		n.log.Warn("write notification", zap.Error(err))
	}
}
