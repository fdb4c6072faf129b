package domain

import "time"

// WinnerRecordID is the constant partition key of the singleton winner row.
// A conditional put on this key is the storage-level guard that makes
// "at most one winner ever" hold across process instances.
const WinnerRecordID = "winner"

type WinnerRecord struct {
	RecordID        string    `json:"-" dynamodbav:"record_id"`
	ContestantID    string    `json:"contestant_id" dynamodbav:"contestant_id"`
	ContestantEmail string    `json:"contestant_email" dynamodbav:"contestant_email"`
	FullName        string    `json:"full_name" dynamodbav:"full_name"`
	Phone           string    `json:"phone" dynamodbav:"phone"`
	DrawnAt         time.Time `json:"drawn_at" dynamodbav:"drawn_at"`
}
