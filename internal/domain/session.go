package domain

import "time"

// Turn is one recorded utterance. Turns are never edited after they are recorded.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// SessionRecord is the persisted form of one conversation session.
type SessionRecord struct {
	SessionID string
	State     string // JSON-encoded dialogue state
	UpdatedAt string
	TTL       int64 // unix seconds; zero means no expiry
}

// NewSessionRecord stamps state with the current time and an expiry ttl from now.
func NewSessionRecord(sessionID, state string, ttl time.Duration) SessionRecord {
	now := time.Now().UTC()
	rec := SessionRecord{
		SessionID: sessionID,
		State:     state,
		UpdatedAt: now.Format(time.RFC3339),
	}
	if ttl > 0 {
		rec.TTL = now.Add(ttl).Unix()
	}
	return rec
}

// Expired reports whether the record's TTL has passed at now.
func (r SessionRecord) Expired(now time.Time) bool {
	return r.TTL > 0 && r.TTL <= now.Unix()
}
