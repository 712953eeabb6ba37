package models

import (
	"testing"
	"time"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := ParseDate(value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return d
}

func TestProjectProgress(t *testing.T) {
	cases := []struct {
		name  string
		nodes []Milestone
		want  float64
	}{
		{name: "no milestones", nodes: nil, want: 0},
		{name: "none done", nodes: []Milestone{{Content: "a"}, {Content: "b"}}, want: 0},
		{name: "half done", nodes: []Milestone{{Done: true}, {}}, want: 0.5},
		{name: "all done", nodes: []Milestone{{Done: true}, {Done: true}, {Done: true}}, want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Project{Nodes: tc.nodes}.Progress()
			if got != tc.want {
				t.Fatalf("Progress() = %v, want %v", got, tc.want)
			}
			if got < 0 || got > 1 {
				t.Fatalf("Progress() = %v out of [0,1]", got)
			}
		})
	}
}

func TestExpectedCompletionIsLastMilestoneLabel(t *testing.T) {
	p := Project{Nodes: []Milestone{
		{TimeLabel: "2025-03"},
		{TimeLabel: "2025-06"},
		{TimeLabel: "2025-01"},
	}}
	if got := p.ExpectedCompletion(); got != "2025-01" {
		t.Fatalf("ExpectedCompletion() = %q, want last label", got)
	}
	if got := (Project{}).ExpectedCompletion(); got != "" {
		t.Fatalf("empty project ExpectedCompletion() = %q", got)
	}
}

func TestSortProjectsByCreated(t *testing.T) {
	projects := []Project{
		{ID: 1, CreatedAt: date(t, "2024-12-01")},
		{ID: 2, CreatedAt: date(t, "2024-12-20")},
		{ID: 3, CreatedAt: date(t, "2024-11-30")},
	}
	SortProjectsByCreated(projects)

	want := []string{"2024-11-30", "2024-12-01", "2024-12-20"}
	for i, p := range projects {
		if got := p.CreatedAt.Format(DateLayout); got != want[i] {
			t.Fatalf("position %d = %s, want %s", i, got, want[i])
		}
	}
}

func TestMilestoneDaysOverdue(t *testing.T) {
	today := date(t, "2025-01-12")
	end := date(t, "2025-01-10")

	days, late := Milestone{End: &end}.DaysOverdue(today)
	if !late || days != 2 {
		t.Fatalf("DaysOverdue() = (%d, %v), want (2, true)", days, late)
	}

	for _, d := range []string{"2025-01-12", "2026-06-01"} {
		if _, late := (Milestone{End: &end, Done: true}).DaysOverdue(date(t, d)); late {
			t.Fatalf("done milestone flagged late on %s", d)
		}
	}

	if _, late := (Milestone{End: &end}).DaysOverdue(end); late {
		t.Fatal("milestone flagged late on its end date")
	}

	if _, late := (Milestone{TimeLabel: "Q1"}).DaysOverdue(today); late {
		t.Fatal("milestone without end date flagged late")
	}
}

func TestNormalizeMembers(t *testing.T) {
	got := NormalizeMembers([]string{" li ", "wang", "", "li", "zhao"})
	want := []string{"li", "wang", "zhao"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeMembers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NormalizeMembers() = %v, want %v", got, want)
		}
	}
}

func TestParseProjectStatus(t *testing.T) {
	if s, ok := ParseProjectStatus(""); !ok || s != ProjectPlanning {
		t.Fatalf("empty status = (%q, %v)", s, ok)
	}
	if s, ok := ParseProjectStatus(" In_Progress "); !ok || s != ProjectInProgress {
		t.Fatalf("mixed case status = (%q, %v)", s, ok)
	}
	if _, ok := ParseProjectStatus("abandoned"); ok {
		t.Fatal("unknown status accepted")
	}
}
