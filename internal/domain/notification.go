package domain

import "time"

// Notification kinds and delivery states for the outbound queue.
const (
	NotificationVerification = "verification"
	NotificationWinner       = "winner"

	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// Notification is an outbound email job record. The dispatcher writes one row
// per enqueued job and updates its status after the delivery attempt, so
// delivery failures are inspectable without ever blocking the enqueuing caller.
type Notification struct {
	NotificationID string     `json:"id" dynamodbav:"notification_id"`
	Kind           string     `json:"kind" dynamodbav:"kind"`
	Recipient      string     `json:"recipient" dynamodbav:"recipient"`
	Subject        string     `json:"subject" dynamodbav:"subject"`
	Status         string     `json:"status" dynamodbav:"status"`
	Detail         string     `json:"detail,omitempty" dynamodbav:"detail"`
	CreatedAt      time.Time  `json:"created" dynamodbav:"created_at"`
	SentAt         *time.Time `json:"sent_at,omitempty" dynamodbav:"sent_at,omitempty"`
}
