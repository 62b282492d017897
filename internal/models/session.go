package models

import "time"

type SessionStatus string

const (
	SessionStatusStarted   SessionStatus = "started"
	SessionStatusGenerated SessionStatus = "generated"
	SessionStatusReviewed  SessionStatus = "reviewed"
	SessionStatusFailed    SessionStatus = "failed"
)

// Session is one completed (or failed) wizard run, persisted for the
// `sessions` listing. Artifacts on disk are the source of truth; the
// session row only records where they went.
type Session struct {
	ID          string
	CreatedAt   time.Time
	ProjectName string
	ProjectDir  string
	SpecPath    string
	Status      SessionStatus
}

// Usage records the token consumption of one provider call.
type Usage struct {
	ID               int64
	SessionID        string
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	CreatedAt        time.Time
}
