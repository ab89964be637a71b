package models

import (
	"errors"

	goval "github.com/go-passwd/validator"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User is a registered account. Identity is the id the conversation provider knows the user by.
type User struct {
	Model
	Email          string `json:"email" gorm:"uniqueIndex;not null"`
	Username       string `json:"username" gorm:"uniqueIndex;not null"`
	HashedPassword string `json:"-" gorm:"not null"`
	Identity       string `json:"identity" gorm:"uniqueIndex;not null"`
}

type RegisterRequest struct {
	Email    string `json:"email" conform:"trim,lower" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username" conform:"trim" validate:"required,min=2,max=64,excludes=@"`
}

// LoginRequest identifies the account by email or username. Email wins when both are sent.
type LoginRequest struct {
	Email    string `json:"email" conform:"trim,lower" validate:"required_without=Username"`
	Username string `json:"username" conform:"trim" validate:"required_without=Email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User          *User  `json:"user"`
	Token         string `json:"token"`
	ProviderToken string `json:"providerToken"`
}

// ValidatePassword enforces the password length policy. bcrypt ignores bytes past 72.
func ValidatePassword(password string) error {
	passwordValidator := goval.New(
		goval.MinLength(4, errors.New("password can't be less than 4 characters")),
		goval.MaxLength(72, errors.New("password can't be more than 72 characters")),
	)
	return passwordValidator.Validate(password)
}

// Normalize trims whitespace and lowercases emails according to the conform tags.
func Normalize(v interface{}) error {
	return conform.Strings(v)
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}
