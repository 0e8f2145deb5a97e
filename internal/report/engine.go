// Package report derives attendance roll-ups from persisted sessions. It
// only reads through the session store's query surface and never mutates.
package report

import (
	"sort"
	"time"

	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/session"
)

type DayStatus string

const (
	StatusPresent       DayStatus = "Present"
	StatusAbsent        DayStatus = "Absent"
	StatusNotApplicable DayStatus = "Not Applicable"
)

// DayTotal is the worked seconds for one civil date.
type DayTotal struct {
	Date         string `json:"date"`
	TotalSeconds int64  `json:"total_seconds"`
}

// DayPresence classifies one date of a month.
type DayPresence struct {
	Date   string    `json:"date"`
	Status DayStatus `json:"status"`
}

// PerformerTotal is one employee's total over a range.
type PerformerTotal struct {
	UserID       uint   `json:"user_id"`
	EmployeeID   int    `json:"employee_id"`
	Name         string `json:"name"`
	TotalSeconds int64  `json:"total_seconds"`
}

type Engine struct {
	store *session.Store
	loc   *time.Location
	now   func() time.Time
}

func NewEngine(store *session.Store, loc *time.Location) *Engine {
	return &Engine{store: store, loc: loc, now: time.Now}
}

const dateLayout = "2006-01-02"

func (e *Engine) civilDate(t time.Time) string {
	return t.In(e.loc).Format(dateLayout)
}

// DailyTotals groups the user's sessions by the civil date of their start
// timestamp and sums the materialized durations, most recent day first. Open
// sessions contribute 0, so a day with only an in-progress session still
// shows up.
func (e *Engine) DailyTotals(userID uint, r session.DateRange) ([]DayTotal, error) {
	rows, err := e.store.List(userID, &r)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64)
	for _, s := range rows {
		var secs int64
		if s.DurationSeconds != nil {
			secs = *s.DurationSeconds
		}
		totals[e.civilDate(s.StartTime)] += secs
	}

	out := make([]DayTotal, 0, len(totals))
	for day, secs := range totals {
		out = append(out, DayTotal{Date: day, TotalSeconds: secs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// RangeTotal sums duration over all closed sessions whose start date falls in
// the range, optionally restricted to one badge number.
func (e *Engine) RangeTotal(r session.DateRange, employeeID *int) (int64, error) {
	rows, err := e.store.ListAll(&r, employeeID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, s := range rows {
		if s.DurationSeconds != nil {
			total += *s.DurationSeconds
		}
	}
	return total, nil
}

// MonthlyCalendar classifies every date of the month: dates after today are
// Not Applicable, a date with at least one session started on it is Present,
// anything else is Absent. Presence only; leave and holidays are out of
// scope.
func (e *Engine) MonthlyCalendar(userID uint, year int, month time.Month) ([]DayPresence, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, e.loc)
	last := first.AddDate(0, 1, -1)

	r := session.DateRange{From: first, To: last}
	rows, err := e.store.List(userID, &r)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool)
	for _, s := range rows {
		present[e.civilDate(s.StartTime)] = true
	}

	today := e.civilDate(e.now())

	out := make([]DayPresence, 0, last.Day())
	for d := 1; d <= last.Day(); d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, e.loc).Format(dateLayout)
		status := StatusAbsent
		switch {
		case day > today:
			status = StatusNotApplicable
		case present[day]:
			status = StatusPresent
		}
		out = append(out, DayPresence{Date: day, Status: status})
	}
	return out, nil
}

// TopPerformers ranks employees by total worked seconds over the range,
// descending. Ties keep the order the rows were first seen in.
func (e *Engine) TopPerformers(r session.DateRange, limit int) ([]PerformerTotal, error) {
	rows, err := e.store.ListAll(&r, nil)
	if err != nil {
		return nil, err
	}

	index := make(map[uint]int)
	out := make([]PerformerTotal, 0)
	for _, s := range rows {
		i, ok := index[s.UserID]
		if !ok {
			p := PerformerTotal{UserID: s.UserID}
			if s.User != nil {
				p.EmployeeID = s.User.EmployeeID
				p.Name = s.User.Name
			}
			index[s.UserID] = len(out)
			out = append(out, p)
			i = len(out) - 1
		}
		if s.DurationSeconds != nil {
			out[i].TotalSeconds += *s.DurationSeconds
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalSeconds > out[j].TotalSeconds
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
