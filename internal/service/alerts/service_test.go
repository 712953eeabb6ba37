package alerts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/repository/memory"
	client "github.com/mamadbah2/nccfarm/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.SendTextMessageRequest
	err  error
}

func (f *fakeClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	f.sent = append(f.sent, req)
	if f.err != nil {
		return nil, f.err
	}
	return &client.SendTextMessageResponse{}, nil
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	end := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	_, _ = store.ClaimSeed(ctx, "ncc")
	_, _ = store.CreateProject(ctx, "ncc", models.Project{
		Name:  "Barn",
		Nodes: []models.Milestone{{Content: "Footing", End: &end}, {Content: "Roof", End: &end, Done: true}},
	})
	_, _ = store.CreateTask(ctx, "ncc", models.MaintenanceTask{Name: "Pump", DueDate: end})
	_, _ = store.CreateTask(ctx, "ncc", models.MaintenanceTask{Name: "Fence", DueDate: end.AddDate(0, 0, 7)})

	_, _ = store.ClaimSeed(ctx, "quiet")
	return store
}

func newTestService(t *testing.T, wa client.Client) *Service {
	t.Helper()
	svc := NewService(seededStore(t), wa, "8613800000000", nil)
	svc.now = func() time.Time { return time.Date(2025, 1, 12, 7, 0, 0, 0, time.UTC) }
	return svc
}

func TestCollectSkipsQuietWorkspaces(t *testing.T) {
	svc := newTestService(t, nil)

	digests, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(digests) != 1 || digests[0].Tenant != "ncc" {
		t.Fatalf("digests = %+v", digests)
	}
	d := digests[0]
	if len(d.LateMilestones) != 1 || d.LateMilestones[0].DaysOverdue != 2 || d.LateMilestones[0].Content != "Footing" {
		t.Fatalf("late = %+v", d.LateMilestones)
	}
	if len(d.OverdueTasks) != 1 || d.OverdueTasks[0].Name != "Pump" {
		t.Fatalf("overdue = %+v", d.OverdueTasks)
	}
}

func TestSendDeliversDigest(t *testing.T) {
	wa := &fakeClient{}
	svc := newTestService(t, wa)

	text, err := svc.Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(wa.sent) != 1 || wa.sent[0].To != "8613800000000" || wa.sent[0].Body != text {
		t.Fatalf("sent = %+v", wa.sent)
	}
	for _, want := range []string{"NCC alerts 2025-01-12", "[ncc]", `Barn: "Footing" 2 days overdue`, "Maintenance: Pump (due 2025-01-10)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("digest missing %q:\n%s", want, text)
		}
	}
}

func TestSendWithoutClientOnlyLogs(t *testing.T) {
	svc := newTestService(t, nil)

	text, err := svc.Send(context.Background())
	if err != nil || text == "" {
		t.Fatalf("text = %q, err = %v", text, err)
	}
}

func TestSendReportsDeliveryFailure(t *testing.T) {
	svc := newTestService(t, &fakeClient{err: errors.New("timeout")})

	if _, err := svc.Send(context.Background()); err == nil {
		t.Fatal("expected delivery error")
	}
}
