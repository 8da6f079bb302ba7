package shared

import "time"

// DayFormat is the ISO day-string layout used for filtering.
const DayFormat = "2006-01-02"

// DayRange is an inclusive [From, To] filter over ISO day strings. The range
// only takes effect when both bounds are set; a single bound filters nothing.
type DayRange struct {
	From string
	To   string
}

// Active reports whether both bounds are supplied.
func (r DayRange) Active() bool {
	return r.From != "" && r.To != ""
}

// Contains reports whether day falls inside the range. Inactive ranges admit
// every day, including malformed ones, matching the feed's lenient records.
func (r DayRange) Contains(day string) bool {
	if !r.Active() {
		return true
	}
	d, err := time.Parse(DayFormat, Day(day))
	if err != nil {
		return false
	}
	from, err := time.Parse(DayFormat, r.From)
	if err != nil {
		return false
	}
	to, err := time.Parse(DayFormat, r.To)
	if err != nil {
		return false
	}
	return !d.Before(from) && !d.After(to)
}

// Day truncates a timestamp-ish string to its ISO day prefix.
func Day(s string) string {
	if len(s) > len(DayFormat) {
		return s[:len(DayFormat)]
	}
	return s
}
