package models

import (
	"time"
)

type User struct {
	ID          int64       `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Phone       string      `json:"phone,omitempty"`
	DateJoined  time.Time   `json:"date_joined"`
	Preferences Preferences `json:"preferences"`
	Profile     *Profile    `json:"profile,omitempty"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

type Preferences struct {
	Language   string `json:"language,omitempty"`
	Currency   string `json:"currency,omitempty"`
	Newsletter bool   `json:"newsletter"`
}

type Profile struct {
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar,omitempty"`
	Country     string `json:"country,omitempty"`
	City        string `json:"city,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// ProfileUpdate is a partial update: nil fields are not sent
type ProfileUpdate struct {
	FirstName   *string      `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName    *string      `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Phone       *string      `json:"phone,omitempty" validate:"omitempty,max=32"`
	Preferences *Preferences `json:"preferences,omitempty"`
	Profile     *Profile     `json:"profile,omitempty"`
}

type PasswordResetConfirm struct {
	UID         string `json:"uid" validate:"required"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
