package gateway

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/nhle/taskgenius/internal/model"
)

// Login opens a session for email and returns the logged-in user.
func (c *Client) Login(ctx context.Context, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	var resp loginResponse
	if err := c.post(ctx, "/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return model.User{}, fmt.Errorf("logging in as %s: %w", email, err)
	}
	return resp.User, nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/logout", nil, nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// ListUsers returns every user except the caller.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.get(ctx, "/users", &users); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user account. Only owners may do this.
func (c *Client) DeleteUser(ctx context.Context, userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("%w: user id is required", ErrValidation)
	}
	var resp messageResponse
	if err := c.delete(ctx, "/users/"+url.PathEscape(userID), &resp); err != nil {
		return "", fmt.Errorf("deleting user %s: %w", userID, err)
	}
	return resp.Message, nil
}

// ListProjects returns the projects visible to the caller.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.get(ctx, "/projects", &projects); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// SelectProject marks projectID as the session's current project.
func (c *Client) SelectProject(ctx context.Context, projectID string) (model.Project, error) {
	var resp selectProjectResponse
	if err := c.post(ctx, "/select-project/"+url.PathEscape(projectID), nil, &resp); err != nil {
		return model.Project{}, fmt.Errorf("selecting project %s: %w", projectID, err)
	}
	return resp.Project, nil
}

// ListMembers returns the members of a project.
func (c *Client) ListMembers(ctx context.Context, projectID string) ([]model.Member, error) {
	var members []model.Member
	if err := c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/members", &members); err != nil {
		return nil, fmt.Errorf("listing members of %s: %w", projectID, err)
	}
	return members, nil
}

// CreateInvitation invites email to projectID with role. The returned
// invitation carries the registration link.
func (c *Client) CreateInvitation(ctx context.Context, projectID, email, role string) (model.Invitation, error) {
	email = strings.TrimSpace(email)
	if email == "" || role == "" {
		return model.Invitation{}, fmt.Errorf("%w: email and role are required", ErrValidation)
	}
	if !slices.Contains(model.InvitableRoles, role) {
		return model.Invitation{}, fmt.Errorf("%w: role must be Foreman or Worker", ErrValidation)
	}

	var inv model.Invitation
	path := "/projects/" + url.PathEscape(projectID) + "/invitations"
	if err := c.post(ctx, path, invitationRequest{Email: email, Role: role}, &inv); err != nil {
		return model.Invitation{}, fmt.Errorf("inviting %s: %w", email, err)
	}
	inv.ProjectID = projectID
	inv.Status = model.InvitationPending
	inv.Source = model.InvitationSent
	inv.Token = tokenFromLink(inv.InviteLink)
	return inv, nil
}

// tokenFromLink returns the token query parameter of an invite link.
func tokenFromLink(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Query().Get("token")
}

// ListTasks returns the tasks of a project, newest first.
func (c *Client) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/tasks", &tasks); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	for i := range tasks {
		tasks[i].ProjectID = projectID
		tasks[i].Priority = model.ParsePriority(string(tasks[i].Priority))
	}
	return tasks, nil
}

// CreateTask adds a task to a project and returns its id.
func (c *Client) CreateTask(ctx context.Context, projectID string, in model.TaskInput) (int64, error) {
	if strings.TrimSpace(in.Title) == "" {
		return 0, fmt.Errorf("%w: title is required", ErrValidation)
	}
	var resp createdResponse
	if err := c.post(ctx, "/projects/"+url.PathEscape(projectID)+"/tasks", in, &resp); err != nil {
		return 0, fmt.Errorf("creating task: %w", err)
	}
	return resp.ID, nil
}

// GetTask fetches a single task.
func (c *Client) GetTask(ctx context.Context, id int64) (model.Task, error) {
	var task model.Task
	if err := c.get(ctx, fmt.Sprintf("/tasks/%d", id), &task); err != nil {
		return model.Task{}, fmt.Errorf("fetching task %d: %w", id, err)
	}
	task.Priority = model.ParsePriority(string(task.Priority))
	task.Completed = task.IsCompleted()
	return task, nil
}

// UpdateTask replaces the editable fields of a task. Nil pointers in in
// are sent as null and clear the field.
func (c *Client) UpdateTask(ctx context.Context, id int64, in model.TaskInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if err := c.put(ctx, fmt.Sprintf("/tasks/%d", id), in, nil); err != nil {
		return fmt.Errorf("updating task %d: %w", id, err)
	}
	return nil
}

// SetCompleted marks a task done or reopens it.
func (c *Client) SetCompleted(ctx context.Context, id int64, done bool) error {
	status := model.StatusToDo
	if done {
		status = model.StatusDone
	}
	if err := c.put(ctx, fmt.Sprintf("/tasks/%d", id), statusRequest{Status: status}, nil); err != nil {
		return fmt.Errorf("setting task %d to %s: %w", id, status, err)
	}
	return nil
}

// DeleteTask removes a task and its comments.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if err := c.delete(ctx, fmt.Sprintf("/tasks/%d", id), nil); err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return nil
}

// ListComments returns a task's comments, oldest first.
func (c *Client) ListComments(ctx context.Context, taskID int64) ([]model.Comment, error) {
	var comments []model.Comment
	if err := c.get(ctx, fmt.Sprintf("/tasks/%d/comments", taskID), &comments); err != nil {
		return nil, fmt.Errorf("listing comments of task %d: %w", taskID, err)
	}
	for i := range comments {
		comments[i].TaskID = taskID
	}
	return comments, nil
}

// AddComment posts a comment on a task and returns its id.
func (c *Client) AddComment(ctx context.Context, taskID int64, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%w: comment text cannot be empty", ErrValidation)
	}
	var resp createdResponse
	if err := c.post(ctx, fmt.Sprintf("/tasks/%d/comments", taskID), commentRequest{Text: text}, &resp); err != nil {
		return 0, fmt.Errorf("commenting on task %d: %w", taskID, err)
	}
	return resp.ID, nil
}

// ListMessages returns a conversation's messages, oldest first.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var msgs []model.Message
	if err := c.get(ctx, "/chat/"+url.PathEscape(conversationID)+"/messages", &msgs); err != nil {
		return nil, fmt.Errorf("listing messages of %s: %w", conversationID, err)
	}
	return msgs, nil
}

// PostMessage sends a chat message and returns it as stored.
func (c *Client) PostMessage(ctx context.Context, conversationID, text string) (model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Message{}, fmt.Errorf("%w: message text cannot be empty", ErrValidation)
	}
	var msg model.Message
	path := "/chat/" + url.PathEscape(conversationID) + "/messages"
	if err := c.post(ctx, path, messageRequest{Text: text}, &msg); err != nil {
		return model.Message{}, fmt.Errorf("posting to %s: %w", conversationID, err)
	}
	return msg, nil
}
