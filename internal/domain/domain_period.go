package domain

import "time"

// PeriodKeyLayout is the canonical layout for period map keys.
const PeriodKeyLayout = "2006-01"

// Period is a calendar month. Review operations derive the period from
// the server clock once per invocation and treat it as immutable.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a note name rendered with layout back into a
// period. Names that do not match the layout report ok as false.
func ParsePeriod(name string, layout string) (Period, bool) {
	t, err := time.Parse(layout, name)
	if err != nil {
		return Period{}, false
	}
	return PeriodOf(t), true
}

// Time returns the first instant of the period in local time.
func (p Period) Time() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.Local)
}

// Key renders the canonical map key, e.g. "2024-03".
func (p Period) Key() string {
	return p.Time().Format(PeriodKeyLayout)
}

// Format renders the period with a Go time layout.
func (p Period) Format(layout string) string {
	return p.Time().Format(layout)
}

// NoteCollection 按周期 Key 索引的周期笔记集合
type NoteCollection map[string]*Note
