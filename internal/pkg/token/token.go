package token

import "github.com/google/uuid"

// NewVerificationToken generates a random UUIDv4 string used as a
// verification token value. UUIDs keep tokens opaque and collision-free
// while staying short enough for query-string links.
func NewVerificationToken() string {
	return uuid.NewString()
}
