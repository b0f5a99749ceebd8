package model

import (
	"time"
)

type User struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"` // Unique
	HashedPassword string     `json:"-"`     // Not exposed
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	// Recovery fields are only set while a password reset is pending.
	// A token is never valid without its expiration.
	RecoveryPasswordToken               *string    `json:"-"`
	RecoveryPasswordTokenExpirationDate *time.Time `json:"-"`
	Researcher                          bool       `json:"researcher"`
	CreatedAt                           time.Time  `json:"created_at"`
	UpdatedAt                           time.Time  `json:"updated_at"`
}

// UserView is the sanitized projection returned by the user endpoints.
// It never carries the password hash or the raw recovery token.
type UserView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Researcher bool   `json:"researcher"`
}

// View projects a user into its sanitized form.
func (u *User) View() UserView {
	return UserView{
		ID:         u.ID,
		Name:       u.Name,
		LastName:   u.LastName,
		Email:      u.Email,
		Researcher: u.Researcher,
	}
}

// RecoveryTokenView is the projection returned by the dedicated
// token-issuing endpoint. This is the only surface that exposes the token.
type RecoveryTokenView struct {
	ID                                  string     `json:"id"`
	RecoveryPasswordToken               *string    `json:"recoveryPasswordToken"`
	RecoveryPasswordTokenExpirationDate *time.Time `json:"recoveryPasswordTokenExpirationDate"`
}
