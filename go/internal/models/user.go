package models

// UserRole is the role a logged in user acts under
type UserRole string

const (
	UserRoleManager UserRole = "MANAGER"
	UserRoleTeam    UserRole = "TEAM"
)

// User represents an authenticated user profile
type User struct {
	ID       string   `json:"id" yaml:"id"`
	Username string   `json:"username" yaml:"username"`
	Role     UserRole `json:"role" yaml:"role"`
	Team     *TeamRef `json:"team,omitempty" yaml:"team,omitempty"`
}
