// Package attendance lays out the weekly attendance board.
package attendance

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/academia/apiclient"
)

const DateLayout = "2006-01-02"

type Period string

const (
	Morning   Period = "MORNING"
	Afternoon Period = "AFTERNOON"
	Evening   Period = "EVENING"
)

var Periods = []Period{Morning, Afternoon, Evening}

type Filter string

const (
	FilterAll     Filter = "ALL"
	FilterDone    Filter = "DONE"
	FilterPending Filter = "PENDING"
)

// ParseFilter defaults to FilterAll.
func ParseFilter(s string) Filter {
	switch f := Filter(strings.ToUpper(s)); f {
	case FilterDone, FilterPending:
		return f
	default:
		return FilterAll
	}
}

var weekdayHeaders = [7]string{"Thứ 2", "Thứ 3", "Thứ 4", "Thứ 5", "Thứ 6", "Thứ 7", "CN"}

// Weekday returns the header of an API day of week (1=Monday ... 7=Sunday).
func Weekday(dow int) string {
	if dow < 1 || dow > 7 {
		return ""
	}
	return weekdayHeaders[dow-1]
}

// Monday returns midnight of the Monday of t's week. Sunday belongs to the week before.
func Monday(t time.Time) time.Time {
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseWeek returns the Monday of the week containing date (YYYY-MM-DD), or of now when date is invalid.
func ParseWeek(date string, now time.Time) time.Time {
	t, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return Monday(now)
	}
	return Monday(t)
}

// Minutes converts "HH:MM" to minutes since midnight; malformed values sort first.
func Minutes(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 3)
	if len(parts) < 2 {
		return 0
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0
	}
	return h*60 + m
}

// PeriodOf classifies a start time: before 12h, before 18h, or evening.
func PeriodOf(hhmm string) Period {
	switch h := Minutes(hhmm) / 60; {
	case h < 12:
		return Morning
	case h < 18:
		return Afternoon
	default:
		return Evening
	}
}

// Done reports whether attendance was taken for the slot.
func Done(s apiclient.AttendanceSlot) bool {
	return s.Status == apiclient.AttendancePresent || s.HasImage
}

type Stats struct {
	Total   int
	Done    int
	Pending int
}

func StatsOf(slots []apiclient.AttendanceSlot) Stats {
	st := Stats{Total: len(slots)}
	for _, s := range slots {
		if Done(s) {
			st.Done++
		}
	}
	st.Pending = st.Total - st.Done
	return st
}

func Apply(slots []apiclient.AttendanceSlot, f Filter) []apiclient.AttendanceSlot {
	out := make([]apiclient.AttendanceSlot, 0, len(slots))
	for _, s := range slots {
		switch {
		case f == FilterDone && !Done(s):
		case f == FilterPending && Done(s):
		default:
			out = append(out, s)
		}
	}
	return out
}

type (
	Cell struct {
		Period Period
		Slots  []apiclient.AttendanceSlot
	}

	Day struct {
		Date   string // YYYY-MM-DD
		Header string
		Short  string // DD/MM
		Today  bool
		Cells  []Cell
	}

	// Board is one week of slots laid out by day and period.
	Board struct {
		Start  time.Time
		Prev   string
		Next   string
		Filter Filter
		Stats  Stats
		Days   []Day
	}
)

// NewBoard lays out slots for the week starting at monday. Stats count every slot;
// cells only hold the slots passing f, ordered by start time.
func NewBoard(monday time.Time, slots []apiclient.AttendanceSlot, f Filter, now time.Time) Board {
	b := Board{
		Start:  monday,
		Prev:   monday.AddDate(0, 0, -7).Format(DateLayout),
		Next:   monday.AddDate(0, 0, 7).Format(DateLayout),
		Filter: f,
		Stats:  StatsOf(slots),
	}
	filtered := Apply(slots, f)
	sort.SliceStable(filtered, func(i, j int) bool {
		return Minutes(filtered[i].StartTime) < Minutes(filtered[j].StartTime)
	})

	today := now.Format(DateLayout)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		day := Day{
			Date:   d.Format(DateLayout),
			Header: weekdayHeaders[i],
			Short:  d.Format("02/01"),
		}
		day.Today = day.Date == today
		for _, p := range Periods {
			cell := Cell{Period: p}
			for _, s := range filtered {
				if s.Date == day.Date && PeriodOf(s.StartTime) == p {
					cell.Slots = append(cell.Slots, s)
				}
			}
			day.Cells = append(day.Cells, cell)
		}
		b.Days = append(b.Days, day)
	}
	return b
}
