package models

import "time"

type UserRole string

const (
	RolePlayer    UserRole = "player"
	RoleCoach     UserRole = "coach"
	RoleStatAdmin UserRole = "stat_admin"
	RoleOrganizer UserRole = "organizer"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RolePlayer, RoleCoach, RoleStatAdmin, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
