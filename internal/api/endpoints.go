package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/and161185/taskdesk/internal/convert"
	"github.com/and161185/taskdesk/internal/errs"
	"github.com/and161185/taskdesk/internal/model"
)

// SignIn calls POST /auth/signin.
func (c *Client) SignIn(ctx context.Context, cr model.Credentials) (model.AuthResult, error) {
	return c.auth(ctx, "sign in", "signin", convert.ToWireCredentials(cr))
}

// SignUp calls POST /auth/signup.
func (c *Client) SignUp(ctx context.Context, r model.Registration) (model.AuthResult, error) {
	return c.auth(ctx, "sign up", "signup", convert.ToWireRegistration(r))
}

func (c *Client) auth(ctx context.Context, op, endpoint string, in any) (model.AuthResult, error) {
	var out convert.AuthResponseDTO
	if err := c.do(ctx, op, http.MethodPost, []string{"auth", endpoint}, nil, in, &out); err != nil {
		return model.AuthResult{}, err
	}
	if out.Token == "" {
		return model.AuthResult{}, &errs.Error{Kind: errs.ErrServer, Op: op, Message: "response has no token"}
	}
	return convert.FromWireAuth(out), nil
}

// ListTasks calls GET /tasks?page=P&limit=L.
func (c *Client) ListTasks(ctx context.Context, page, limit int) (model.TaskPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out convert.TaskPageDTO
	if err := c.do(ctx, "list tasks", http.MethodGet, []string{"tasks"}, q, nil, &out); err != nil {
		return model.TaskPage{}, err
	}
	return convert.FromWireTaskPage(out), nil
}

// CreateTask calls POST /tasks.
func (c *Client) CreateTask(ctx context.Context, d model.Draft) (model.Task, error) {
	var out convert.TaskDTO
	if err := c.do(ctx, "create task", http.MethodPost, []string{"tasks"}, nil, convert.ToWireDraft(d), &out); err != nil {
		return model.Task{}, err
	}
	return convert.FromWireTask(out), nil
}

// UpdateTask calls PUT /tasks/:id.
func (c *Client) UpdateTask(ctx context.Context, id string, d model.Draft) (model.Task, error) {
	var out convert.TaskDTO
	if err := c.do(ctx, "update task", http.MethodPut, []string{"tasks", url.PathEscape(id)}, nil, convert.ToWireDraft(d), &out); err != nil {
		return model.Task{}, err
	}
	return convert.FromWireTask(out), nil
}

// DeleteTask calls DELETE /tasks/:id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, "delete task", http.MethodDelete, []string{"tasks", url.PathEscape(id)}, nil, nil, nil)
}
