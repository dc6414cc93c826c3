package care

import (
	"testing"

	"github.com/pkg/errors"
)

func TestNextCareTime(t *testing.T) {
	tests := []struct {
		name       string
		date, hhmm string
		want       string
		wantErr    bool
	}{
		{"no date", "", "10:30", "", false},
		{"default time", "2025-12-04", "", "2025-12-04T09:00:00", false},
		{"with time", "2025-12-04", "14:15", "2025-12-04T14:15:00", false},
		{"spaces", " 2025-12-04 ", " 08:05 ", "2025-12-04T08:05:00", false},
		{"bad date", "04/12/2025", "", "", true},
		{"bad time", "2025-12-04", "25:00", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextCareTime(tc.date, tc.hhmm)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NextCareTime() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && errors.Cause(err) != ErrBadNextCare {
				t.Errorf("NextCareTime() error cause = %v, want ErrBadNextCare", errors.Cause(err))
			}
			if got != tc.want {
				t.Errorf("NextCareTime() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := map[string]string{
		"2025-12-04T09:00:00":       "04/12/2025 09:00",
		"2025-12-04T09:00":          "04/12/2025 09:00",
		"2025-12-04T09:00:00+07:00": "04/12/2025 09:00",
		"2025-12-04":                "04/12/2025",
		"":                          "",
		"tomorrow":                  "tomorrow",
	}
	for in, want := range tests {
		if got := Display(in); got != want {
			t.Errorf("Display(%q) = %q, want %q", in, got, want)
		}
	}
}
