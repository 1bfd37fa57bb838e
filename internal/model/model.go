// Package model defines domain entities shared by the client layers.
package model

import (
	"strings"
	"time"
)

// Role is the authorization role carried by an Identity.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Identity is the decoded claims of a session token.
type Identity struct {
	Username  string
	Email     string
	Role      Role
	IssuedAt  time.Time // zero if the token carries no iat
	ExpiresAt time.Time // zero if the token carries no exp
}

// IsAdmin reports whether the identity may delete other users' tasks.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Status is the lifecycle state of a Task.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// ParseStatus accepts a status name case-insensitively. Empty input yields Pending.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending":
		return StatusPending, true
	case "completed":
		return StatusCompleted, true
	}
	return "", false
}

// Task is a server-owned record; the client only holds a page-local copy.
type Task struct {
	ID          string // server-assigned, immutable
	Title       string
	Description string
	Status      Status
	CreatedDate time.Time // server-assigned
}

// Draft is the editable part of a Task submitted on create/update.
type Draft struct {
	Title       string
	Description string
	Status      Status
}

// DraftOf returns the editable fields of t.
func DraftOf(t Task) Draft {
	return Draft{Title: t.Title, Description: t.Description, Status: t.Status}
}

// TaskPage is one server page of tasks.
type TaskPage struct {
	Tasks      []Task
	TotalPages int
}

// PageSizes lists the page sizes offered by the grid paginator.
var PageSizes = []int{5, 10, 15, 20}

// DefaultPageSize is the initial page size of a view session.
const DefaultPageSize = 5

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// PageState is the authoritative pagination tuple of the task list view.
type PageState struct {
	Page       int // 1-based
	Size       int
	TotalPages int
}

// Credentials is the sign-in request.
type Credentials struct {
	Email    string
	Password string
}

// Registration is the sign-up request.
type Registration struct {
	Username string
	Email    string
	Password string
	Role     Role
}

// AuthResult is the server reply to sign-in and sign-up.
type AuthResult struct {
	Token string
	User  *Identity // nil if the server did not include a user object
}
