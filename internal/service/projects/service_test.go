package projects

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/repository/memory"
	"github.com/mamadbah2/nccfarm/internal/session"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2025, 1, 12, 10, 0, 0, 0, time.UTC) }
	return svc, store
}

func loggedIn() session.State {
	return session.State{
		ID:       "s1",
		LoggedIn: true,
		User:     models.User{ID: "admin", Role: models.RoleAdmin, Workspace: "ncc"},
		Screen:   models.ScreenProjectCreate,
	}
}

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return &d
}

func TestListSortsByCreatedAndShowsLastMilestone(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	_, _ = store.CreateProject(ctx, "ncc", models.Project{Name: "late", CreatedAt: *date(t, "2025-01-05")})
	_, _ = store.CreateProject(ctx, "ncc", models.Project{
		Name:      "early",
		CreatedAt: *date(t, "2024-12-01"),
		Nodes: []models.Milestone{
			{TimeLabel: "Week 1", Content: "dig", Done: true},
			{TimeLabel: "Week 4", Content: "pour"},
		},
	})

	view, err := svc.List(ctx, loggedIn())
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Projects) != 2 || view.Projects[0].Name != "early" {
		t.Fatalf("projects = %+v", view.Projects)
	}
	first := view.Projects[0]
	if first.ExpectedCompletion != "Week 4" || first.Progress != 0.5 {
		t.Fatalf("first row = %+v", first)
	}
	if view.Projects[1].Progress != 0 {
		t.Fatalf("project without milestones progress = %v", view.Projects[1].Progress)
	}
}

func TestSearchFiltersByAnyCell(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	_, _ = store.CreateProject(ctx, "ncc", models.Project{
		Name: "Greenhouse foundation", Leader: "admin", Members: []string{"Staff02"},
		Status: models.ProjectInProgress, CreatedAt: *date(t, "2025-01-01"),
		Nodes: []models.Milestone{{TimeLabel: "March pour", Content: "slab"}},
	})
	_, _ = store.CreateProject(ctx, "ncc", models.Project{
		Name: "East fence", Leader: "Staff01", Status: models.ProjectPlanning, CreatedAt: *date(t, "2024-12-01"),
	})

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"East fence", "Greenhouse foundation"}},
		{"FENCE", []string{"East fence"}},
		{"staff", []string{"East fence", "Greenhouse foundation"}},
		{"march", []string{"Greenhouse foundation"}},
		{" pour", []string{"Greenhouse foundation"}},
		{"planning", []string{"East fence"}},
		{"nothing", nil},
	}
	for _, tc := range cases {
		st := loggedIn()
		view, err := svc.Search(ctx, &st, tc.query)
		if err != nil {
			t.Fatal(err)
		}
		if len(view.Projects) != len(tc.want) {
			t.Fatalf("query %q: got %+v", tc.query, view.Projects)
		}
		for i, name := range tc.want {
			if view.Projects[i].Name != name {
				t.Fatalf("query %q: row %d = %s, want %s", tc.query, i, view.Projects[i].Name, name)
			}
		}
		if st.ProjectQuery != tc.query || view.Query != tc.query {
			t.Fatalf("query %q not remembered: %q", tc.query, st.ProjectQuery)
		}
	}
}

func TestListRequiresLogin(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.List(context.Background(), session.State{}); !errors.Is(err, models.ErrNotLoggedIn) {
		t.Fatalf("err = %v", err)
	}
}

func TestCreateCopiesAndClearsDraft(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	st := loggedIn()

	for i := 0; i < 3; i++ {
		if err := svc.AddDraftMilestone(&st); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.UpdateDraftMilestone(&st, 0, MilestoneInput{Content: "survey", Start: "2025-01-01", End: "2025-01-05"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateDraftMilestone(&st, 1, MilestoneInput{TimeLabel: "Feb", Content: "pour"}); err != nil {
		t.Fatal(err)
	}

	p, err := svc.Create(ctx, &st, CreateInput{
		Name:    " Barn ",
		Leader:  "admin",
		Members: []string{"a", "b", "a", " "},
	})
	if err != nil {
		t.Fatal(err)
	}

	if p.ID != 1 || p.Name != "Barn" || p.Status != models.ProjectPlanning {
		t.Fatalf("project = %+v", p)
	}
	if len(p.Nodes) != 2 || p.Nodes[0].TimeLabel != "2025-01-01 ~ 2025-01-05" {
		t.Fatalf("nodes = %+v", p.Nodes)
	}
	if len(p.Members) != 2 {
		t.Fatalf("members = %v", p.Members)
	}
	if st.MilestoneDraft != nil || st.Screen != models.ScreenProjectDetail || st.SelectedProject != p.ID {
		t.Fatalf("state after create = %+v", st)
	}
}

func TestCreateReportsMissingFields(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	st := loggedIn()
	st.MilestoneDraft = []models.Milestone{{TimeLabel: "Week 1"}}

	_, err := svc.Create(ctx, &st, CreateInput{Name: "Barn", Leader: "admin"})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v", err)
	}
	if verr.Fields["milestones[0].content"] == "" {
		t.Fatalf("fields = %v", verr.Fields)
	}

	_, err = svc.Create(ctx, &st, CreateInput{Leader: "admin"})
	if !models.IsValidation(err) {
		t.Fatalf("missing name err = %v", err)
	}

	projects, _ := store.ListProjects(ctx, "ncc")
	if len(projects) != 0 {
		t.Fatalf("invalid submissions were stored: %+v", projects)
	}
	if len(st.MilestoneDraft) != 1 {
		t.Fatal("draft was cleared by a failed submit")
	}
}

func TestDraftRowBounds(t *testing.T) {
	svc, _ := newTestService(t)
	st := loggedIn()

	if err := svc.RemoveDraftMilestone(&st, 0); !errors.Is(err, models.ErrIndexOutOfRange) {
		t.Fatalf("remove err = %v", err)
	}
	_ = svc.AddDraftMilestone(&st)
	_ = svc.AddDraftMilestone(&st)
	if err := svc.RemoveDraftMilestone(&st, 0); err != nil {
		t.Fatal(err)
	}
	if len(st.MilestoneDraft) != 1 {
		t.Fatalf("draft = %+v", st.MilestoneDraft)
	}
	if err := svc.UpdateDraftMilestone(&st, 0, MilestoneInput{Start: "2025-02-10", End: "2025-02-01"}); !models.IsValidation(err) {
		t.Fatalf("end before start err = %v", err)
	}
}

func TestDetailFlagsLateMilestones(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	p, _ := store.CreateProject(ctx, "ncc", models.Project{
		Name: "Barn",
		Nodes: []models.Milestone{
			{Content: "late", End: date(t, "2025-01-10")},
			{Content: "done", End: date(t, "2025-01-10"), Done: true},
			{Content: "future", End: date(t, "2025-01-20")},
			{TimeLabel: "Week 3", Content: "no date"},
		},
	})

	st := loggedIn()
	if err := svc.Select(ctx, &st, p.ID); err != nil {
		t.Fatal(err)
	}
	view, err := svc.Detail(ctx, st)
	if err != nil {
		t.Fatal(err)
	}

	late := view.Milestones[0]
	if !late.Late || late.DaysOverdue != 2 || late.Warning != "2 days overdue" {
		t.Fatalf("late milestone = %+v", late)
	}
	for _, m := range view.Milestones[1:] {
		if m.Late {
			t.Fatalf("milestone %q flagged late", m.Content)
		}
	}
}

func TestSetMilestoneDoneIsTwoWay(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	p, _ := store.CreateProject(ctx, "ncc", models.Project{
		Name:  "Barn",
		Nodes: []models.Milestone{{Content: "a"}, {Content: "b"}},
	})
	st := loggedIn()

	view, err := svc.SetMilestoneDone(ctx, st, p.ID, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if view.Progress != 0.5 {
		t.Fatalf("progress = %v", view.Progress)
	}

	view, err = svc.SetMilestoneDone(ctx, st, p.ID, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if view.Progress != 0 || view.Milestones[1].Done {
		t.Fatalf("milestone could not be unchecked: %+v", view.Milestones[1])
	}

	if _, err := svc.SetMilestoneDone(ctx, st, p.ID, 5, true); !errors.Is(err, models.ErrIndexOutOfRange) {
		t.Fatalf("bad index err = %v", err)
	}
	if _, err := svc.SetMilestoneDone(ctx, st, 99, 0, true); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("unknown project err = %v", err)
	}
}

func TestSelectUnknownProject(t *testing.T) {
	svc, _ := newTestService(t)
	st := loggedIn()
	if err := svc.Select(context.Background(), &st, 42); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if st.Screen != models.ScreenProjectCreate {
		t.Fatal("screen changed on failed select")
	}
}
