package users

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleOrganizer Role = "ORGANIZER"
	RoleUser      Role = "USER"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Phone     string    `json:"phone"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"not null;default:'USER'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins first and last name, skipping blanks
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleUser, RoleAdmin, RoleOrganizer:
		return true
	default:
		return false
	}
}

// Actor is the caller on whose behalf a service operation runs
type Actor struct {
	ID   uint
	Role Role
}

// SystemActor is used by scheduled jobs
var SystemActor = Actor{ID: 0, Role: RoleAdmin}

func (a Actor) IsAdmin() bool     { return a.Role == RoleAdmin }
func (a Actor) IsOrganizer() bool { return a.Role == RoleOrganizer }

// CanManage reports whether the actor may act on a resource owned by organizerID
func (a Actor) CanManage(organizerID uint) bool {
	if a.IsAdmin() {
		return true
	}
	return a.IsOrganizer() && organizerID != 0 && a.ID == organizerID
}
