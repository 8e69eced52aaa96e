package sessions

import (
	"fmt"
	"strings"

	"github.com/felixguerrero12/SessionSentry/internal/model"
)

// Timeline projects the event log into a flat per-event view, independent
// of session grouping. The caller's event order is preserved: the
// normalizer already yields chronological order, and out-of-order input
// is passed through rather than re-sorted.
func Timeline(events []*model.Event, username string) []*model.TimelineEntry {
	var entries []*model.TimelineEntry
	for _, e := range events {
		if username != "" && !strings.EqualFold(e.Username, username) {
			continue
		}
		entries = append(entries, &model.TimelineEntry{
			Timestamp:     e.Timestamp,
			Type:          e.EventType,
			Username:      e.Username,
			Workstation:   e.Workstation,
			IPAddress:     e.IPAddress,
			LogonID:       e.LogonID,
			LinkedLogonID: optional(e.LinkedLogonID),
			EventID:       e.EventID,
			SessionID:     e.LogonID,
			Details:       EventDetails(e),
			IsElevated:    e.IsElevated,
			LogonType:     e.LogonType,
		})
	}
	return entries
}

// EventDetails synthesizes the human-readable summary string for an event:
// the event id and raw type, plus the logon type when known and the linked
// logon id when present.
func EventDetails(e *model.Event) string {
	details := fmt.Sprintf("Event %s (%s)", e.EventID, e.EventType)
	if e.LogonType != "" && e.LogonType != model.NA {
		details += ", Type " + e.LogonType
	}
	if e.LinkedLogonID != "" {
		details += ", Linked to " + e.LinkedLogonID
	}
	return details
}
