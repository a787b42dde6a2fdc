package user

import (
	"net/mail"
	"strings"

	"github.com/shareit-app/shareit/internal/domain"
)

// User is a registered participant: an item owner, a booker, or both.
type User struct {
	id    int64
	name  string
	email string
}

// NewUser creates an unsaved User with validated fields.
func NewUser(name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, domain.NewValidationError("user name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	return &User{name: name, email: email}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id int64, name, email string) *User {
	return &User{id: id, name: name, email: email}
}

func (u *User) ID() int64     { return u.id }
func (u *User) Name() string  { return u.name }
func (u *User) Email() string { return u.email }

// WithID returns a copy carrying the store-assigned identifier.
func (u *User) WithID(id int64) *User {
	c := *u
	c.id = id
	return &c
}

// Patch returns a copy with the non-nil fields applied.
func (u *User) Patch(name, email *string) (*User, error) {
	c := *u
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return nil, domain.NewValidationError("user name must not be blank")
		}
		c.name = n
	}
	if email != nil {
		e := strings.TrimSpace(*email)
		if err := validateEmail(e); err != nil {
			return nil, err
		}
		c.email = e
	}
	return &c, nil
}

func validateEmail(email string) error {
	if email == "" {
		return domain.NewValidationError("user email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.NewValidationError("user email is malformed: " + email)
	}
	return nil
}
