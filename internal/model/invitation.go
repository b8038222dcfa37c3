package model

// Invitation status values.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
)

// Where an invitation was recorded from.
const (
	InvitationSent     = "sent"
	InvitationReceived = "inbox"
)

// Invitation grants a role on a project to an e-mail address that has no
// account yet.
type Invitation struct {
	Token      string `json:"token,omitempty" db:"token"`
	Email      string `json:"email" db:"email"`
	ProjectID  string `json:"project_id,omitempty" db:"project_id"`
	Role       string `json:"role" db:"role"`
	Status     string `json:"status,omitempty" db:"status"`
	InviteLink string `json:"invite_link_for_testing,omitempty" db:"invite_link"`
	Message    string `json:"message,omitempty" db:"message"`
	Source     string `json:"-" db:"source"`
}
