package sessions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/felixguerrero12/SessionSentry/internal/model"
)

// ErrSessionNotFound is returned by point lookups when no session or raw
// event matches the requested logon id.
var ErrSessionNotFound = errors.New("session not found")

// Reconstruct pairs each Login event with its eventual Logoff and returns
// the resulting sessions, newest first. Sessions with no observed Logoff
// remain Active and their duration is computed against the explicit now
// parameter, never an ambient clock.
//
// Pairing rules:
//   - A second Login on a logon id that is still open force-closes the
//     earlier session at the second Login's timestamp (logon ids are
//     reused by the OS, so a dangling open session on the same id is
//     taken to have ended).
//   - A Logoff with no open session on its id is dropped.
//   - Any other event type attaches to the open session on its id, or is
//     dropped when there is none.
//
// The username filter is applied case-insensitively before pairing, so a
// session never mixes events from two usernames. All working state is
// local to the call; reconstructing the same input twice yields identical
// results.
func Reconstruct(events []*model.Event, username string, now time.Time) []*model.Session {
	filtered := filterByUser(events, username)

	// Stable sort: Login/Logoff pairing for same-timestamp events depends
	// on their original log order.
	ordered := make([]*model.Event, len(filtered))
	copy(ordered, filtered)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	active := make(map[string]*model.Session)
	var closed []*model.Session

	for _, e := range ordered {
		switch e.Kind() {
		case model.KindLogin:
			if prev, ok := active[e.LogonID]; ok {
				closeSession(prev, e.Timestamp)
				closed = append(closed, prev)
			}
			active[e.LogonID] = openSession(e)

		case model.KindLogoff:
			s, ok := active[e.LogonID]
			if !ok {
				continue // logoff with no matching login, e.g. log window starts mid-session
			}
			s.Events = append(s.Events, model.SessionEvent{
				Type:      e.EventType,
				Timestamp: e.Timestamp,
				Details:   fmt.Sprintf("%s event %s", e.EventType, e.EventID),
			})
			closeSession(s, e.Timestamp)
			closed = append(closed, s)
			delete(active, e.LogonID)

		default:
			s, ok := active[e.LogonID]
			if !ok {
				continue // no session context to attach to
			}
			s.Events = append(s.Events, model.SessionEvent{
				Type:      e.EventType,
				Timestamp: e.Timestamp,
				Details:   EventDetails(e),
			})
		}
	}

	// Whatever is still open at the end of the log is an active session.
	for _, s := range active {
		d := now.Sub(s.StartTime).Minutes()
		s.Duration = &d
		s.DurationFormatted = FormatDuration(&d)
		closed = append(closed, s)
	}

	sort.Slice(closed, func(i, j int) bool {
		if !closed[i].StartTime.Equal(closed[j].StartTime) {
			return closed[i].StartTime.After(closed[j].StartTime)
		}
		return closed[i].SessionID < closed[j].SessionID
	})

	return closed
}

// Find returns the session with the given id from a reconstructed set,
// or ErrSessionNotFound.
func Find(sessions []*model.Session, id string) (*model.Session, error) {
	for _, s := range sessions {
		if s.SessionID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
}

// SessionEvents returns the raw events sharing one logon id, sorted by
// timestamp ascending. Unlike Reconstruct, a reused id is not split into
// instances: the union of all events on the id is returned. Returns
// ErrSessionNotFound when nothing matches.
func SessionEvents(events []*model.Event, logonID, username string) ([]*model.Event, error) {
	var matched []*model.Event
	for _, e := range events {
		if e.LogonID != logonID {
			continue
		}
		if username != "" && !strings.EqualFold(e.Username, username) {
			continue
		}
		matched = append(matched, e)
	}

	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, logonID)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})
	return matched, nil
}

// Users returns the unique non-empty usernames in the log, sorted
// alphabetically, exact case preserved.
func Users(events []*model.Event) []string {
	seen := make(map[string]bool)
	var users []string
	for _, e := range events {
		if e.Username == "" || seen[e.Username] {
			continue
		}
		seen[e.Username] = true
		users = append(users, e.Username)
	}
	sort.Strings(users)
	return users
}

// openSession starts a new session from a Login event.
func openSession(e *model.Event) *model.Session {
	details := fmt.Sprintf("Login event %s, Type %s", e.EventID, e.LogonType)
	if e.LinkedLogonID != "" {
		details += ", Linked to " + e.LinkedLogonID
	}

	return &model.Session{
		SessionID:         e.LogonID,
		Username:          e.Username,
		StartTime:         e.Timestamp,
		Status:            model.StatusActive,
		DurationFormatted: FormatDuration(nil),
		Workstation:       e.Workstation,
		IPAddress:         e.IPAddress,
		LogonType:         e.LogonType,
		LinkedLogonID:     optional(e.LinkedLogonID),
		IsElevated:        e.IsElevated,
		Events: []model.SessionEvent{{
			Type:      e.EventType,
			Timestamp: e.Timestamp,
			Details:   details,
		}},
	}
}

// closeSession marks a session Completed at the given end time and fills
// in its duration.
func closeSession(s *model.Session, end time.Time) {
	e := end
	s.EndTime = &e
	d := end.Sub(s.StartTime).Minutes()
	s.Duration = &d
	s.DurationFormatted = FormatDuration(&d)
	s.Status = model.StatusCompleted
}

// filterByUser restricts events to one username, case-insensitively.
// An empty filter returns the input unchanged.
func filterByUser(events []*model.Event, username string) []*model.Event {
	if username == "" {
		return events
	}
	var out []*model.Event
	for _, e := range events {
		if strings.EqualFold(e.Username, username) {
			out = append(out, e)
		}
	}
	return out
}

// optional maps the normalizer's empty-string sentinel to a JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
