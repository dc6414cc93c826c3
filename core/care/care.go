// Package care builds care history entries from the support forms.
package care

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultTime is used when a next care date is given without a time.
const DefaultTime = "09:00"

// Channels offered by the care forms.
var Channels = []string{"PHONE", "ZALO", "FACEBOOK", "EMAIL", "IN_PERSON", "OTHER"}

var ErrBadNextCare = errors.New("care: invalid next care date or time")

// NextCareTime joins a YYYY-MM-DD date and an HH:MM time into the API's local date-time
// (YYYY-MM-DDTHH:MM:00). An empty date yields "" (no reminder).
func NextCareTime(date, hhmm string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", nil
	}
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "" {
		hhmm = DefaultTime
	}
	t, err := time.Parse("2006-01-02 15:04", date+" "+hhmm)
	if err != nil {
		return "", errors.Wrap(ErrBadNextCare, err.Error())
	}
	return t.Format("2006-01-02T15:04:00"), nil
}

// Display formats an API date-time for tables (DD/MM/YYYY HH:MM). Unparsable values are
// returned as they are.
func Display(v string) string {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("02/01/2006 15:04")
		}
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.Format("02/01/2006")
	}
	return v
}
