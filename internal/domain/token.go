package domain

import "time"

// VerificationTokenTTL is how long a verification token stays consumable.
const VerificationTokenTTL = 2 * time.Hour

// VerificationToken is a single-use email ownership proof.
// PK: token (UUIDv4). ExpiresAt doubles as the DynamoDB TTL attribute.
// UsedAt is absent until the token is consumed; consumption is a conditional
// update so at most one caller ever wins.
type VerificationToken struct {
	Token           string     `json:"token" dynamodbav:"token"`
	ContestantEmail string     `json:"contestant_email" dynamodbav:"contestant_email"`
	CreatedAt       time.Time  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt       int64      `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	UsedAt          *time.Time `json:"used_at,omitempty" dynamodbav:"used_at,omitempty"`
}

func (t *VerificationToken) IsExpired(now time.Time) bool {
	return now.Unix() > t.ExpiresAt
}
