// Package convert maps between REST wire payloads and domain models.
package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/and161185/taskdesk/internal/model"
)

// WireID accepts a JSON string or number.
type WireID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *WireID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = WireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = WireID(n.String())
	return nil
}

// TaskDTO is a task as returned by the API.
type TaskDTO struct {
	ID          WireID `json:"id"`
	MongoID     WireID `json:"_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedDate string `json:"createdDate"`
}

// TaskPageDTO is the body of GET /tasks.
type TaskPageDTO struct {
	Tasks      []TaskDTO `json:"tasks"`
	TotalPages int       `json:"totalPages"`
}

// DraftDTO is the body of POST /tasks and PUT /tasks/:id.
type DraftDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// SignInDTO is the body of POST /auth/signin.
type SignInDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpDTO is the body of POST /auth/signup.
type SignUpDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserDTO is the user object included in auth responses.
type UserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// AuthResponseDTO is the body of a successful sign-in/sign-up.
type AuthResponseDTO struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user,omitempty"`
}

// ErrorDTO is the body of a failure response.
type ErrorDTO struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Text returns the human-readable part of the error body.
func (e ErrorDTO) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate parses a server timestamp. Unrecognized input yields the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FromWireTask converts a wire task. Unknown statuses are kept verbatim.
func FromWireTask(d TaskDTO) model.Task {
	id := d.ID
	if id == "" {
		id = d.MongoID
	}
	st, ok := model.ParseStatus(d.Status)
	if !ok {
		st = model.Status(d.Status)
	}
	return model.Task{
		ID:          string(id),
		Title:       d.Title,
		Description: d.Description,
		Status:      st,
		CreatedDate: ParseDate(d.CreatedDate),
	}
}

// FromWireTaskPage converts a GET /tasks body.
func FromWireTaskPage(d TaskPageDTO) model.TaskPage {
	out := model.TaskPage{Tasks: make([]model.Task, 0, len(d.Tasks)), TotalPages: d.TotalPages}
	for _, t := range d.Tasks {
		out.Tasks = append(out.Tasks, FromWireTask(t))
	}
	return out
}

// ToWireDraft converts a draft for POST/PUT.
func ToWireDraft(d model.Draft) DraftDTO {
	st := d.Status
	if st == "" {
		st = model.StatusPending
	}
	return DraftDTO{Title: d.Title, Description: d.Description, Status: string(st)}
}

// ToWireCredentials converts sign-in credentials.
func ToWireCredentials(c model.Credentials) SignInDTO {
	return SignInDTO{Email: c.Email, Password: c.Password}
}

// ToWireRegistration converts a sign-up request.
func ToWireRegistration(r model.Registration) SignUpDTO {
	role := r.Role
	if role == "" {
		role = model.RoleUser
	}
	return SignUpDTO{Username: r.Username, Email: r.Email, Password: r.Password, Role: string(role)}
}

// FromWireAuth converts an auth response. The user hint is nil if absent.
func FromWireAuth(d AuthResponseDTO) model.AuthResult {
	res := model.AuthResult{Token: d.Token}
	if d.User != nil {
		res.User = &model.Identity{
			Username: d.User.Username,
			Email:    d.User.Email,
			Role:     model.Role(strings.ToLower(d.User.Role)),
		}
	}
	return res
}
