package gateway

import "github.com/nhle/taskgenius/internal/model"

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// messageResponse is returned by mutations that only confirm success.
type messageResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// createdResponse is returned by create endpoints.
type createdResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool       `json:"success"`
	User    model.User `json:"user"`
}

type selectProjectResponse struct {
	Success bool          `json:"success"`
	Project model.Project `json:"project"`
}

type invitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type commentRequest struct {
	Text string `json:"comment_text"`
}

type messageRequest struct {
	Text string `json:"message_text"`
}
