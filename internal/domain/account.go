package domain

import "time"

const (
	RoleAdmin      = "admin"
	RoleContestant = "contestant"
)

// Account is a credential record. PK: username (the contestant's lowercased
// email). Created by the verification flow, or seeded for administrators.
type Account struct {
	Username     string    `json:"username" dynamodbav:"username"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         string    `json:"role" dynamodbav:"role"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
