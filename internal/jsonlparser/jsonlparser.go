package jsonlparser

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/felixguerrero12/SessionSentry/internal/model"
)

// ReadResult contains the outcome of a JSONL import operation.
type ReadResult struct {
	Events []*model.Event
	Count  int
}

// rawEvent is the JSON structure of one exported activity event. Field
// names match the CSV export columns; IsElevated is loosely typed since
// some collectors emit it as a bool and others as a string.
type rawEvent struct {
	Timestamp     string      `json:"Timestamp"`
	EventType     string      `json:"EventType"`
	EventID       string      `json:"EventId"`
	Username      string      `json:"Username"`
	Domain        string      `json:"Domain"`
	LogonID       string      `json:"LogonId"`
	LinkedLogonID string      `json:"LinkedLogonId"`
	LogonType     string      `json:"LogonType"`
	Workstation   string      `json:"WorkstationName"`
	IPAddress     string      `json:"IPAddress"`
	IsElevated    interface{} `json:"IsElevated"`
}

// Timestamp layouts accepted in JSONL exports: the CSV collector format
// and RFC 3339 without offset.
var timestampLayouts = []string{
	"01/02/2006 03:04:05 PM",
	"2006-01-02T15:04:05",
}

// ValidateFile checks if a file looks like an activity log JSONL by
// reading the first line.
func ValidateFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)

	if !scanner.Scan() {
		return fmt.Errorf("empty file")
	}

	line := strings.TrimSpace(scanner.Text())
	if len(line) == 0 || line[0] != '{' {
		return fmt.Errorf("first line is not a JSON object")
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return fmt.Errorf("first line is not valid JSON: %w", err)
	}

	if _, ok := raw["Timestamp"]; !ok {
		return fmt.Errorf("no Timestamp field found; does not appear to be an activity log")
	}
	if _, ok := raw["LogonId"]; !ok {
		return fmt.Errorf("no LogonId field found; does not appear to be an activity log")
	}

	return nil
}

// ReadEvents reads and normalizes all events from an activity log JSONL
// file. An onProgress callback is called every 10,000 events if non-nil.
func ReadEvents(path string, onProgress func(count int)) (*ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)

	result := &ReadResult{}
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var raw rawEvent
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}

		event, err := raw.normalize()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		result.Events = append(result.Events, event)
		result.Count++
		if onProgress != nil && result.Count%10000 == 0 {
			onProgress(result.Count)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return result, nil
}

// normalize applies the same defaulting rules as the CSV normalizer.
func (r *rawEvent) normalize() (*model.Event, error) {
	ts, err := parseTimestamp(r.Timestamp)
	if err != nil {
		return nil, err
	}

	return &model.Event{
		Timestamp:     ts,
		EventType:     stringOr(r.EventType, ""),
		EventID:       stringOr(r.EventID, ""),
		Username:      stringOr(r.Username, ""),
		Domain:        stringOr(r.Domain, ""),
		LogonID:       stringOr(r.LogonID, ""),
		LinkedLogonID: stringOr(r.LinkedLogonID, ""),
		LogonType:     stringOr(r.LogonType, model.NA),
		Workstation:   stringOr(r.Workstation, ""),
		IPAddress:     stringOr(r.IPAddress, model.NA),
		IsElevated:    parseElevated(r.IsElevated),
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// stringOr returns the default when the value is absent or an NA sentinel.
func stringOr(value, def string) string {
	switch value {
	case "", "-", "N/A":
		return def
	default:
		return value
	}
}

// parseElevated coerces the loosely typed IsElevated field to a boolean.
// String encodings are accepted case-insensitively; anything else
// defaults to false.
func parseElevated(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}
