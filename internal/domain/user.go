package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User is the public projection of an account. The password hash and the
// reset-token pair live only in the users table and never cross the API
// boundary.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user may perform moderation actions.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// UserSummary is the embedded creator/owner projection returned with
// campaigns and business promotions.
type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}
