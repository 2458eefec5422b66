// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

type capabilities struct {
	manageCatalog   bool
	manageUsers     bool
	moderateContent bool
}

// Capability lookup keyed by role; avoids scattering string comparisons
// through the handlers.
var roleCapabilities = map[Role]capabilities{
	RoleUser:      {},
	RoleModerator: {moderateContent: true},
	RoleAdmin:     {manageCatalog: true, manageUsers: true, moderateContent: true},
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

func (r Role) IsAdmin() bool {
	return roleCapabilities[r].manageUsers
}

func (r Role) IsModerator() bool {
	return r == RoleModerator
}

// CanModerate reports whether the role may edit or delete content it does
// not own (reviews and comments).
func (r Role) CanModerate() bool {
	return roleCapabilities[r].moderateContent
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID               string    `db:"id"`
	Username         string    `db:"username"`
	Email            string    `db:"email"`
	FirstName        string    `db:"first_name"`
	LastName         string    `db:"last_name"`
	Bio              string    `db:"bio"`
	Role             Role      `db:"role"`
	ConfirmationCode string    `db:"confirmation_code"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// ReservedUsername is rejected at signup and user creation because it
// collides with the /users/me route.
const ReservedUsername = "me"
