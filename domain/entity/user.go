package entity

import (
	"errors"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "user"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole maps a stored role string onto a known Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	UID          string    `json:"uid"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewUser(uid, username, email, firstName, lastName, passwordHash string, role Role, verified bool) *User {
	now := time.Now()
	return &User{
		UID:          uid,
		Username:     username,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Role:         role,
		IsVerified:   verified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
