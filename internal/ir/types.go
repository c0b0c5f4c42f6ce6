package ir

// Identity is an opaque, unforgeable requester token supplied by the
// transport layer. Two identities are the same principal iff they are equal.
type Identity string

// Address is the storage key of a record, as produced by DeriveAddress.
// Hex-encoded SHA-256, always 64 characters.
type Address string

// RecordKind tags what a stored record holds.
type RecordKind string

const (
	KindProfile    RecordKind = "profile"
	KindSubmission RecordKind = "submission"
)

// Profile is the per-identity profile record.
type Profile struct {
	Address     Address  `json:"address"`
	Owner       Identity `json:"owner"`
	DisplayName string   `json:"display_name"`
	FinalGrade  float64  `json:"final_grade"` // Weighted grade from the linked submission, 0 when none
	CreatedSeq  int64    `json:"created_seq"`
}

// Submission is the scored-submission record. At most one exists per owner
// because its address depends on the owner alone.
type Submission struct {
	Address        Address  `json:"address"`
	Owner          Identity `json:"owner"`
	MidtermScore   float64  `json:"midterm_score"`
	FinalScore     float64  `json:"final_score"`
	HomeworkAScore float64  `json:"homework_a_score"`
	HomeworkBScore float64  `json:"homework_b_score"`
	ProfileName    string   `json:"profile_name,omitempty"` // Linked profile, empty when unlinked
	CreatedSeq     int64    `json:"created_seq"`
}

// EventType names a committed lifecycle transition.
type EventType string

const (
	EventProfileCreated      EventType = "profile_created"
	EventProfileDestroyed    EventType = "profile_destroyed"
	EventSubmissionCreated   EventType = "submission_created"
	EventSubmissionDestroyed EventType = "submission_destroyed"
)

// Event is one entry of the append-only lifecycle log. It is written in the
// same transaction as the transition it records.
type Event struct {
	Seq       int64     `json:"seq"`
	RequestID string    `json:"request_id"`
	Type      EventType `json:"type"`
	Owner     Identity  `json:"owner"`
	Address   Address   `json:"address"`
	Payload   []byte    `json:"payload,omitempty"` // JSON snapshot of the record, nil on destroy
}
