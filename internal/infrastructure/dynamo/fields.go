package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldIsVerified      = "is_verified"
	fieldAccountUsername = "account_username"
	fieldUsedAt          = "used_at"
	fieldPasswordHash    = "password_hash"
	fieldStatus          = "status"
	fieldDetail          = "detail"
	fieldSentAt          = "sent_at"
	fieldUpdatedAt       = "updated_at"
)
