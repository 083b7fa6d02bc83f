package model

import "time"

// User is a staff account.  Guests never have accounts; reservations are
// created anonymously and users exist only to manage them.  Superusers
// may additionally manage other accounts.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity derives the request identity for the account.
func (u *User) Identity() Identity {
	return Identity{
		UserID:      u.ID,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
	}
}
