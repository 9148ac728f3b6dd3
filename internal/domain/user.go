// internal/domain/user.go
package domain

// Role distinguishes the kinds of actors carried in the identity token.
type Role string

const (
	RoleUser  Role = "user"
	RoleCoach Role = "coach"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleCoach
}
