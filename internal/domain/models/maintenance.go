package models

import (
	"strings"
	"time"
)

// Period is how often a maintenance task recurs.
type Period string

const (
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
)

// ParsePeriod maps form input to a Period.
func ParsePeriod(value string) (Period, bool) {
	switch p := Period(strings.ToLower(strings.TrimSpace(value))); p {
	case PeriodWeekly, PeriodMonthly, PeriodQuarterly:
		return p, true
	default:
		return "", false
	}
}

// MaintenanceTask is a recurring upkeep job on the farm.
type MaintenanceTask struct {
	ID      int        `bson:"id" json:"id"`
	Name    string     `bson:"name" json:"name"`
	Period  Period     `bson:"period" json:"period"`
	Quarter string     `bson:"quarter" json:"quarter"`
	DueDate time.Time  `bson:"due_date" json:"due_date"`
	Done    bool       `bson:"done" json:"done"`
	DoneBy  string     `bson:"done_by,omitempty" json:"done_by,omitempty"`
	DoneAt  *time.Time `bson:"done_at,omitempty" json:"done_at,omitempty"`
}

// IsOverdue reports whether the task was due before today and is still open.
func (t MaintenanceTask) IsOverdue(today time.Time) bool {
	if t.Done {
		return false
	}
	return DateOnly(today).After(DateOnly(t.DueDate))
}

// QuarterLabel names the calendar quarter of a date, e.g. "2025-Q1".
func QuarterLabel(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return t.Format("2006") + "-Q" + string(rune('0'+q))
}
