package csvparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/felixguerrero12/SessionSentry/internal/model"
)

// Activity log CSV header as produced by the event collector.
// Column order matters: the index positions are used for field mapping.
var activityHeader = []string{
	"Timestamp", "EventType", "EventId", "Username", "Domain",
	"LogonId", "LinkedLogonId", "LogonType", "WorkstationName",
	"IPAddress", "IsElevated",
}

// timestampLayout matches the collector's export format,
// e.g. "01/15/2025 10:30:00 AM".
const timestampLayout = "01/02/2006 03:04:05 PM"

// naValues are treated as absent when read from any nullable column.
var naValues = map[string]bool{"": true, "-": true, "N/A": true}

// ReadResult contains the outcome of a CSV import operation.
type ReadResult struct {
	Events []*model.Event
	Count  int
}

// ValidateHeader checks if a CSV file has a valid activity log header.
// Returns an error describing the mismatch if validation fails.
func ValidateHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(newNullStripper(f))
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	if len(header) < len(activityHeader) {
		return fmt.Errorf("header too short: got %d columns, expected at least %d", len(header), len(activityHeader))
	}

	for i, expected := range activityHeader {
		if header[i] != expected {
			return fmt.Errorf("header mismatch at column %d: expected '%s', got '%s'", i, expected, header[i])
		}
	}

	return nil
}

// ReadEvents reads and normalizes all events from an activity log CSV.
// Optionally limits the number of events (pass 0 for no limit).
// An onProgress callback is called every 10,000 events if non-nil.
func ReadEvents(path string, limit int, onProgress func(count int)) (*ReadResult, error) {
	if err := ValidateHeader(path); err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(newNullStripper(f))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable field counts

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	result := &ReadResult{}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", result.Count+1, err)
		}

		if limit > 0 && result.Count >= limit {
			break
		}

		event, err := rowToEvent(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", result.Count+1, err)
		}
		result.Events = append(result.Events, event)
		result.Count++

		if onProgress != nil && result.Count%10000 == 0 {
			onProgress(result.Count)
		}
	}

	return result, nil
}

// rowToEvent converts a CSV row into a normalized Event. Column mapping:
//
//	0=Timestamp, 1=EventType, 2=EventId, 3=Username, 4=Domain,
//	5=LogonId, 6=LinkedLogonId, 7=LogonType, 8=WorkstationName,
//	9=IPAddress, 10=IsElevated
//
// Nullable fields get their documented defaults: IPAddress and LogonType
// become "N/A", LinkedLogonId becomes empty, IsElevated becomes false.
func rowToEvent(row []string) (*model.Event, error) {
	ts, err := time.Parse(timestampLayout, safeIndex(row, 0))
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp: %w", err)
	}

	return &model.Event{
		Timestamp:     ts,
		EventType:     stringOr(safeIndex(row, 1), ""),
		EventID:       stringOr(safeIndex(row, 2), ""),
		Username:      stringOr(safeIndex(row, 3), ""),
		Domain:        stringOr(safeIndex(row, 4), ""),
		LogonID:       stringOr(safeIndex(row, 5), ""),
		LinkedLogonID: stringOr(safeIndex(row, 6), ""),
		LogonType:     stringOr(safeIndex(row, 7), model.NA),
		Workstation:   stringOr(safeIndex(row, 8), ""),
		IPAddress:     stringOr(safeIndex(row, 9), model.NA),
		IsElevated:    parseBool(safeIndex(row, 10)),
	}, nil
}

// safeIndex returns the value at index i, or empty string if out of bounds.
func safeIndex(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// stringOr returns the default when the value is an NA sentinel.
func stringOr(value, def string) string {
	if naValues[value] {
		return def
	}
	return value
}

// parseBool accepts string-encoded booleans case-insensitively.
// Anything that is not "true" (including NA sentinels) is false.
func parseBool(value string) bool {
	return strings.EqualFold(value, "true")
}

// nullStripper wraps a reader and strips null bytes from the stream.
// Some collectors emit UTF-16-ish exports with stray nulls that would
// otherwise break encoding/csv.
type nullStripper struct {
	r io.Reader
}

func newNullStripper(r io.Reader) io.Reader {
	return &nullStripper{r: r}
}

func (ns *nullStripper) Read(p []byte) (int, error) {
	n, err := ns.r.Read(p)
	if n > 0 {
		// Replace null bytes in place
		cleaned := strings.ReplaceAll(string(p[:n]), "\x00", "")
		copy(p, cleaned)
		n = len(cleaned)
	}
	return n, err
}
