package events

import "time"

// EventType labels a security-relevant occurrence.
type EventType string

const (
	EventLoginSucceeded    EventType = "auth.login_succeeded"
	EventLoginFailed       EventType = "auth.login_failed"
	EventTokenRejected     EventType = "auth.token_rejected"
	EventCsrfRejected      EventType = "csrf.rejected"
	EventRateLimitExceeded EventType = "ratelimit.exceeded"
)

// Event is an audit record emitted by the pipeline.
type Event struct {
	Type       EventType
	SubjectID  string
	ClientIP   string
	Path       string
	Method     string
	OccurredAt time.Time
	Details    map[string]any
}
