// Package alerts builds the daily digest of late milestones and overdue
// maintenance tasks.
package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/metrics"
	"github.com/mamadbah2/nccfarm/internal/repository"
	"github.com/mamadbah2/nccfarm/internal/session"
	client "github.com/mamadbah2/nccfarm/pkg/clients/whatsapp"
)

// LateMilestone is an open milestone past its end date.
type LateMilestone struct {
	ProjectID   int    `json:"project_id"`
	Project     string `json:"project"`
	Index       int    `json:"index"`
	Content     string `json:"content"`
	DaysOverdue int    `json:"days_overdue"`
}

// TenantDigest collects the alerts of one workspace.
type TenantDigest struct {
	Tenant         string                   `json:"tenant"`
	LateMilestones []LateMilestone          `json:"late_milestones"`
	OverdueTasks   []models.MaintenanceTask `json:"overdue_tasks"`
}

// Empty reports whether the workspace has nothing to report.
func (d TenantDigest) Empty() bool {
	return len(d.LateMilestones) == 0 && len(d.OverdueTasks) == 0
}

// Service builds and delivers alert digests.
type Service struct {
	store  repository.Store
	client client.Client
	to     string
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires an alert service. When wa is nil digests are only logged.
func NewService(store repository.Store, wa client.Client, to string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, client: wa, to: to, logger: logger, now: time.Now}
}

// ForSession returns the digest of the session's workspace.
func (s *Service) ForSession(ctx context.Context, st session.State) (TenantDigest, error) {
	if err := st.RequireLogin(); err != nil {
		return TenantDigest{}, err
	}
	return s.ForTenant(ctx, st.Tenant())
}

// ForTenant scans one workspace.
func (s *Service) ForTenant(ctx context.Context, tenant string) (TenantDigest, error) {
	today := s.now()
	digest := TenantDigest{
		Tenant:         tenant,
		LateMilestones: []LateMilestone{},
		OverdueTasks:   []models.MaintenanceTask{},
	}

	projects, err := s.store.ListProjects(ctx, tenant)
	if err != nil {
		return TenantDigest{}, fmt.Errorf("list projects of %q: %w", tenant, err)
	}
	models.SortProjectsByCreated(projects)
	for _, p := range projects {
		for i, m := range p.Nodes {
			if days, late := m.DaysOverdue(today); late {
				digest.LateMilestones = append(digest.LateMilestones, LateMilestone{
					ProjectID:   p.ID,
					Project:     p.Name,
					Index:       i,
					Content:     m.Content,
					DaysOverdue: days,
				})
			}
		}
	}

	tasks, err := s.store.ListTasks(ctx, tenant)
	if err != nil {
		return TenantDigest{}, fmt.Errorf("list maintenance tasks of %q: %w", tenant, err)
	}
	for _, t := range tasks {
		if t.IsOverdue(today) {
			digest.OverdueTasks = append(digest.OverdueTasks, t)
		}
	}
	return digest, nil
}

// Collect scans every known workspace and keeps those with alerts.
func (s *Service) Collect(ctx context.Context) ([]TenantDigest, error) {
	tenants, err := s.store.Tenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	var out []TenantDigest
	for _, tenant := range tenants {
		d, err := s.ForTenant(ctx, tenant)
		if err != nil {
			return nil, err
		}
		if !d.Empty() {
			out = append(out, d)
		}
	}
	return out, nil
}

// Send builds the digest across workspaces and delivers it. It returns the
// rendered text, empty when there was nothing to report.
func (s *Service) Send(ctx context.Context) (string, error) {
	digests, err := s.Collect(ctx)
	if err != nil {
		metrics.IncrementAlertDigest("failed")
		return "", err
	}
	if len(digests) == 0 {
		s.logger.Info("no alerts to report")
		return "", nil
	}

	text := Format(s.now(), digests)
	if s.client == nil || s.to == "" {
		metrics.IncrementAlertDigest("logged")
		s.logger.Info("alert digest", zap.String("digest", text))
		return text, nil
	}

	if _, err := s.client.SendTextMessage(ctx, client.SendTextMessageRequest{To: s.to, Body: text}); err != nil {
		metrics.IncrementAlertDigest("failed")
		return text, fmt.Errorf("deliver alert digest: %w", err)
	}

	metrics.IncrementAlertDigest("sent")
	s.logger.Info("alert digest sent", zap.Int("workspaces", len(digests)))
	return text, nil
}

// Format renders digests as a plain-text message.
func Format(now time.Time, digests []TenantDigest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "NCC alerts %s\n", now.Format(models.DateLayout))
	for _, d := range digests {
		fmt.Fprintf(&b, "\n[%s]\n", d.Tenant)
		for _, m := range d.LateMilestones {
			fmt.Fprintf(&b, "- %s: %q %d days overdue\n", m.Project, m.Content, m.DaysOverdue)
		}
		for _, t := range d.OverdueTasks {
			fmt.Fprintf(&b, "- Maintenance: %s (due %s)\n", t.Name, t.DueDate.Format(models.DateLayout))
		}
	}
	return b.String()
}
