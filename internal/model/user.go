package model

// User roles.
const (
	RoleOwner   = "Owner"
	RoleForeman = "Foreman"
	RoleWorker  = "Worker"
)

// InvitableRoles are the roles an owner may grant through an invitation.
var InvitableRoles = []string{RoleForeman, RoleWorker}

// User is an account known to the API. The credential hash never leaves
// the server.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// IsOwner reports whether the user holds the Owner role.
func (u User) IsOwner() bool {
	return u.Role == RoleOwner
}
