package model

import "time"

// Session status values.
const (
	StatusActive    = "Active"
	StatusCompleted = "Completed"
)

// SessionEvent is one entry in a session's chronological event list.
type SessionEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}

// Session is one reconstructed logon-to-logoff span. Sessions are derived
// on every query and never persisted. EndTime and Duration are nil while
// the session is still active; Duration is in minutes.
//
// SecurityID and ElevatedTime are carried for API compatibility with
// earlier log exports that included them; current logs leave them empty.
type Session struct {
	SessionID         string         `json:"session_id"`
	Username          string         `json:"username"`
	StartTime         time.Time      `json:"start_time"`
	EndTime           *time.Time     `json:"end_time"`
	Status            string         `json:"status"`
	Duration          *float64       `json:"duration"`
	DurationFormatted string         `json:"duration_formatted"`
	Workstation       string         `json:"workstation"`
	IPAddress         string         `json:"ip_address"`
	LogonType         string         `json:"logon_type"`
	LinkedLogonID     *string        `json:"linked_logon_id"`
	SecurityID        string         `json:"security_id"`
	IsElevated        bool           `json:"is_elevated"`
	ElevatedTime      *time.Time     `json:"elevated_time"`
	Events            []SessionEvent `json:"events"`
}

// TimelineEntry is the flat, session-agnostic projection of one raw event.
// Details is a human-readable summary synthesized from the event fields.
type TimelineEntry struct {
	Timestamp     time.Time  `json:"timestamp"`
	Type          string     `json:"type"`
	Username      string     `json:"username"`
	Workstation   string     `json:"workstation"`
	IPAddress     string     `json:"ip_address"`
	LogonID       string     `json:"logon_id"`
	LinkedLogonID *string    `json:"linked_logon_id"`
	EventID       string     `json:"event_id"`
	SessionID     string     `json:"session_id"`
	Details       string     `json:"details"`
	IsElevated    bool       `json:"is_elevated"`
	ElevatedTime  *time.Time `json:"elevated_time"`
	LogonType     string     `json:"logon_type"`
}
