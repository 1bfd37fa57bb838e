package session

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/taskdesk/internal/errs"
	"github.com/and161185/taskdesk/internal/model"
)

// Claims is the payload of a session token as issued by the task API.
type Claims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Decode parses token without verifying its signature (the client does not
// hold the signing key) and returns the identity it carries. It fails with
// errs.ErrAuth if the token is malformed or expired at now.
func Decode(token string, now time.Time) (model.Identity, error) {
	var c Claims
	_, parts, err := jwt.NewParser().ParseUnverified(token, &c)
	if err != nil {
		return model.Identity{}, &errs.Error{Kind: errs.ErrAuth, Op: "decode token", Message: "malformed token", Err: err}
	}
	if len(parts) != 3 {
		return model.Identity{}, &errs.Error{Kind: errs.ErrAuth, Op: "decode token", Message: "malformed token"}
	}
	if parts[2] == "" {
		return model.Identity{}, &errs.Error{Kind: errs.ErrAuth, Op: "decode token", Message: "unsigned token"}
	}
	if _, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[2], "=")); err != nil {
		return model.Identity{}, &errs.Error{Kind: errs.ErrAuth, Op: "decode token", Message: "malformed signature", Err: err}
	}

	id := model.Identity{
		Username: c.Username,
		Email:    c.Email,
		Role:     model.Role(strings.ToLower(c.Role)),
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
		if !now.Before(id.ExpiresAt) {
			return model.Identity{}, &errs.Error{Kind: errs.ErrAuth, Op: "decode token", Message: "token expired"}
		}
	}
	return id, nil
}
