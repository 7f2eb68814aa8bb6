package models

import "time"

// Role is the account type. Authorization in this system is a role-equality
// check at login; there is no permission middleware.
type Role string

const (
	RolePassenger Role = "passenger"
	RoleAttendant Role = "attendant"
	RoleDoctor    Role = "doctor"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether s is one of the four account roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RolePassenger, RoleAttendant, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// User is an account. The password hash never leaves the server.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         Role      `json:"role" gorm:"not null"`
	TrainID      string    `json:"train_id"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
