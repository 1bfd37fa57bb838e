// Package service contains the client application services: authentication,
// pagination and task mutations.
package service

import (
	"context"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/taskdesk/internal/errs"
	"github.com/and161185/taskdesk/internal/model"
)

// AuthAPI is the remote side of authentication.
type AuthAPI interface {
	SignIn(ctx context.Context, c model.Credentials) (model.AuthResult, error)
	SignUp(ctx context.Context, r model.Registration) (model.AuthResult, error)
}

// SessionStore is the local side of authentication.
type SessionStore interface {
	Login(ctx context.Context, token string, hint *model.Identity) (model.Identity, error)
	Logout(ctx context.Context)
	Identity() (model.Identity, bool)
}

// AuthService defines sign-in, sign-up and sign-out.
type AuthService interface {
	// SignIn authenticates with email/password and starts a session.
	SignIn(ctx context.Context, email, password string) (model.Identity, error)
	// SignUp registers a new account and starts a session for it.
	SignUp(ctx context.Context, r model.Registration) (model.Identity, error)
	// SignOut ends the session. It never fails.
	SignOut(ctx context.Context)
	// Current returns the signed-in identity, if any.
	Current() (model.Identity, bool)
}

type AuthServiceImpl struct {
	api  AuthAPI
	sess SessionStore
	log  *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(api AuthAPI, sess SessionStore, log *zap.Logger) *AuthServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthServiceImpl{api: api, sess: sess, log: log}
}

func validEmail(op, email string) error {
	if email == "" {
		return errs.Validation(op, "email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errs.Validation(op, "email", "email is not a valid address")
	}
	return nil
}

// SignIn validates the credentials locally, then asks the server.
func (s *AuthServiceImpl) SignIn(ctx context.Context, email, password string) (model.Identity, error) {
	const op = "sign in"
	email = strings.TrimSpace(email)
	if err := validEmail(op, email); err != nil {
		return model.Identity{}, err
	}
	if password == "" {
		return model.Identity{}, errs.Validation(op, "password", "password is required")
	}
	res, err := s.api.SignIn(ctx, model.Credentials{Email: email, Password: password})
	if err != nil {
		return model.Identity{}, err
	}
	return s.start(ctx, res)
}

// SignUp validates the registration locally, then asks the server.
func (s *AuthServiceImpl) SignUp(ctx context.Context, r model.Registration) (model.Identity, error) {
	const op = "sign up"
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if r.Username == "" {
		return model.Identity{}, errs.Validation(op, "username", "username is required")
	}
	if err := validEmail(op, r.Email); err != nil {
		return model.Identity{}, err
	}
	if r.Password == "" {
		return model.Identity{}, errs.Validation(op, "password", "password is required")
	}
	if r.Role == "" {
		r.Role = model.RoleUser
	}
	if !r.Role.Valid() {
		return model.Identity{}, errs.Validation(op, "role", "role must be user or admin")
	}
	res, err := s.api.SignUp(ctx, r)
	if err != nil {
		return model.Identity{}, err
	}
	return s.start(ctx, res)
}

func (s *AuthServiceImpl) start(ctx context.Context, res model.AuthResult) (model.Identity, error) {
	id, err := s.sess.Login(ctx, res.Token, res.User)
	if err != nil {
		return model.Identity{}, err
	}
	s.log.Info("signed in", zap.String("username", id.Username), zap.String("role", string(id.Role)))
	return id, nil
}

// SignOut ends the session.
func (s *AuthServiceImpl) SignOut(ctx context.Context) { s.sess.Logout(ctx) }

// Current returns the signed-in identity.
func (s *AuthServiceImpl) Current() (model.Identity, bool) { return s.sess.Identity() }
