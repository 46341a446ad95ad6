package ledger

import (
	"time"
)

// DateLayout is the storage layout for ledger dates.
const DateLayout = "2006-01-02"

// Day truncates t to a calendar day at UTC midnight, keeping t's local date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a stored ledger date. Timestamps written by spreadsheet
// tools ("2006-01-02 15:04:05") are accepted and truncated.
func ParseDay(s string) (time.Time, error) {
	for _, layout := range []string{DateLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	_, err := time.Parse(DateLayout, s)
	return time.Time{}, err
}

// FormatDay renders a ledger date in storage layout.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}
