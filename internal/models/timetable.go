package models

// ScheduleSegment is one parsed piece of a lecture schedule descriptor.
type ScheduleSegment struct {
	Day       string `json:"day"`
	Range     []int  `json:"range"`
	Room      string `json:"room,omitempty"`
	Malformed bool   `json:"-"`
}

// ScheduleEntry is a lecture placed on a timetable grid. Range is never empty
// and always ascends by one.
type ScheduleEntry struct {
	Lecture *Lecture `json:"lecture"`
	Day     string   `json:"day"`
	Range   []int    `json:"range"`
	Room    string   `json:"room,omitempty"`
}

// Covers reports whether the entry occupies the given day and period.
func (e *ScheduleEntry) Covers(day string, period int) bool {
	if e == nil || e.Day != day {
		return false
	}
	for _, p := range e.Range {
		if p == period {
			return true
		}
	}
	return false
}

// Timetable is one weekly grid. Values are treated as immutable once they are
// published in a table set; mutations produce a new Timetable.
type Timetable struct {
	ID      string           `json:"id"`
	Entries []*ScheduleEntry `json:"entries"`
}
