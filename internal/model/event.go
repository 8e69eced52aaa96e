package model

import (
	"errors"
	"time"
)

// NA is the sentinel the normalizer substitutes for absent nullable string
// fields (IP address, logon type). It matches the value the source logs
// themselves use for unknown data.
const NA = "N/A"

// ErrSourceUnavailable is returned by an event source when the underlying
// log cannot be found or opened. The query surface degrades this to an
// empty result set; every other load failure is a real error.
var ErrSourceUnavailable = errors.New("event log unavailable")

// Columns is the ordered list of column names in the activity_log table.
// Used for query building and index management.
var Columns = []string{
	"ts", "event_type", "event_id", "username", "domain",
	"logon_id", "linked_logon_id", "logon_type",
	"workstation", "ip_address", "is_elevated",
}

// Kind classifies an event as a session boundary or ordinary activity.
type Kind int

const (
	KindOther Kind = iota
	KindLogin
	KindLogoff
)

// Event is a single normalized security event from the activity log.
// All nullable string fields are already defaulted by the normalizer:
// IPAddress and LogonType to NA, LinkedLogonID to the empty string.
type Event struct {
	Timestamp     time.Time `json:"timestamp" db:"ts"`
	EventType     string    `json:"type" db:"event_type"`
	EventID       string    `json:"event_id" db:"event_id"`
	Username      string    `json:"username" db:"username"`
	Domain        string    `json:"domain" db:"domain"`
	LogonID       string    `json:"logon_id" db:"logon_id"`
	LinkedLogonID string    `json:"linked_logon_id" db:"linked_logon_id"`
	LogonType     string    `json:"logon_type" db:"logon_type"`
	Workstation   string    `json:"workstation" db:"workstation"`
	IPAddress     string    `json:"ip_address" db:"ip_address"`
	IsElevated    bool      `json:"is_elevated" db:"is_elevated"`
}

// Kind returns the session-boundary classification of the event.
// Anything that is not a recognized Login or Logoff is ordinary activity.
func (e *Event) Kind() Kind {
	switch e.EventType {
	case "Login":
		return KindLogin
	case "Logoff":
		return KindLogoff
	default:
		return KindOther
	}
}
