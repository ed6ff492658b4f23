package domain

import (
	"errors"
	"strings"
	"time"
)

// User represents a user profile record. The numeric identity is assigned by
// storage on creation. Deletion is logical: Deactivate flips the active flag
// and the row is retained.
type User struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Address     Address    `json:"address"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// NewUser constructs an active user with the creation timestamp set to now.
// The address must come from NewAddress; all other fields are required.
func NewUser(name, username, email, phone string, address Address) (*User, error) {
	switch {
	case strings.TrimSpace(name) == "":
		return nil, errors.New("name cannot be blank")
	case strings.TrimSpace(username) == "":
		return nil, errors.New("username cannot be blank")
	case strings.TrimSpace(email) == "":
		return nil, errors.New("email cannot be blank")
	case strings.TrimSpace(phone) == "":
		return nil, errors.New("phone cannot be blank")
	}

	return &User{
		Name:      name,
		Username:  username,
		Email:     email,
		Phone:     phone,
		Address:   address,
		CreatedAt: time.Now().UTC(),
		IsActive:  true,
	}, nil
}

// Update replaces all mutable fields and stamps the update time. It is a full
// replace, never a partial patch; CreatedAt and IsActive are untouched.
func (u *User) Update(name, username, email, phone string, address Address) {
	u.Name = name
	u.Username = username
	u.Email = email
	u.Phone = phone
	u.Address = address
	u.touch()
}

// RecordLogin stamps the last-login and update times.
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.UpdatedAt = &now
}

// Deactivate marks the user as logically deleted.
func (u *User) Deactivate() {
	u.IsActive = false
	u.touch()
}

// Activate restores a logically deleted user.
func (u *User) Activate() {
	u.IsActive = true
	u.touch()
}

func (u *User) touch() {
	now := time.Now().UTC()
	u.UpdatedAt = &now
}
