package domain

import (
	"strings"
	"time"
)

type Contestant struct {
	ContestantID    string    `json:"id" dynamodbav:"contestant_id"`
	FirstName       string    `json:"first_name" dynamodbav:"first_name"`
	LastName        string    `json:"last_name" dynamodbav:"last_name"`
	SecondLastName  string    `json:"second_last_name,omitempty" dynamodbav:"second_last_name"`
	Email           string    `json:"email" dynamodbav:"email"`
	Phone           string    `json:"phone" dynamodbav:"phone"`
	IsVerified      bool      `json:"is_verified" dynamodbav:"is_verified"`
	AccountUsername string    `json:"-" dynamodbav:"account_username"`
	CreatedAt       time.Time `json:"created_at" dynamodbav:"created_at"`
}

// FullName joins the name parts, skipping the optional second last name.
func (c *Contestant) FullName() string {
	names := []string{c.FirstName, c.LastName}
	if c.SecondLastName != "" {
		names = append(names, c.SecondLastName)
	}
	return strings.Join(names, " ")
}

type RegisterContestantRequest struct {
	FirstName      string `json:"first_name" validate:"required,max=50"`
	LastName       string `json:"last_name" validate:"required,max=30"`
	SecondLastName string `json:"second_last_name" validate:"max=30"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required,intl_phone"`
}

// Normalize trims all text fields and lowercases the email. Called before
// validation so the stored values are canonical.
func (r *RegisterContestantRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.SecondLastName = strings.TrimSpace(r.SecondLastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
}

type VerifyEmailRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}
