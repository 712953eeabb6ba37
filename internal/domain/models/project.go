package models

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used across forms, exports and sorting.
const DateLayout = "2006-01-02"

// ProjectStatus tracks where a construction project stands.
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectCompleted  ProjectStatus = "completed"
)

// ParseProjectStatus maps form input to a status, defaulting to planning.
func ParseProjectStatus(value string) (ProjectStatus, bool) {
	switch s := ProjectStatus(strings.ToLower(strings.TrimSpace(value))); s {
	case "":
		return ProjectPlanning, true
	case ProjectPlanning, ProjectInProgress, ProjectOnHold, ProjectCompleted:
		return s, true
	default:
		return "", false
	}
}

// Milestone is a named sub-deliverable of a project.
type Milestone struct {
	TimeLabel string     `bson:"time_label" json:"time_label"`
	Content   string     `bson:"content" json:"content"`
	Start     *time.Time `bson:"start,omitempty" json:"start,omitempty"`
	End       *time.Time `bson:"end,omitempty" json:"end,omitempty"`
	Done      bool       `bson:"done" json:"done"`
}

// DaysOverdue reports how many whole days the milestone is past its end date.
// Milestones without a real end date, or already done, are never late.
func (m Milestone) DaysOverdue(today time.Time) (int, bool) {
	if m.Done || m.End == nil {
		return 0, false
	}

	end := DateOnly(*m.End)
	t := DateOnly(today)
	if !t.After(end) {
		return 0, false
	}
	return int(t.Sub(end).Hours() / 24), true
}

// Project is a construction project owned by a tenant.
type Project struct {
	ID          int           `bson:"id" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Leader      string        `bson:"leader" json:"leader"`
	Members     []string      `bson:"members" json:"members"`
	Nodes       []Milestone   `bson:"nodes" json:"nodes"`
	Status      ProjectStatus `bson:"status" json:"status"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
}

// Progress returns the share of completed milestones, 0 for a project without any.
func (p Project) Progress() float64 {
	if len(p.Nodes) == 0 {
		return 0
	}

	done := 0
	for _, n := range p.Nodes {
		if n.Done {
			done++
		}
	}
	return float64(done) / float64(len(p.Nodes))
}

// ExpectedCompletion is the time label of the last milestone in definition order.
func (p Project) ExpectedCompletion() string {
	if len(p.Nodes) == 0 {
		return ""
	}
	return p.Nodes[len(p.Nodes)-1].TimeLabel
}

// Cells is the string form of the project used by the list search: id, name,
// leader, status, members and milestone time labels.
func (p Project) Cells() []string {
	cells := []string{strconv.Itoa(p.ID), p.Name, p.Leader, string(p.Status)}
	cells = append(cells, p.Members...)
	for _, n := range p.Nodes {
		cells = append(cells, n.TimeLabel)
	}
	return cells
}

// Involves reports whether the user leads or belongs to the project.
func (p Project) Involves(userID string) bool {
	if p.Leader == userID {
		return true
	}
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// NormalizeMembers trims, drops empties and de-duplicates member identifiers,
// keeping first-seen order.
func NormalizeMembers(members []string) []string {
	seen := make(map[string]struct{}, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// SortProjectsByCreated orders projects by creation date, oldest first.
func SortProjectsByCreated(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a DateLayout string, tolerating trailing time components.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) > len(DateLayout) {
		value = value[:len(DateLayout)]
	}
	return time.Parse(DateLayout, value)
}
