package models

import "github.com/shopspring/decimal"

// LoginView is rendered whenever the session is logged out.
type LoginView struct {
	Screen           Screen `json:"screen"`
	DefaultWorkspace string `json:"default_workspace"`
	Roles            []Role `json:"roles"`
}

// DashboardView is the admin console overview.
type DashboardView struct {
	Screen          Screen           `json:"screen"`
	User            User             `json:"user"`
	Maintenance     []MaintenanceRow `json:"maintenance"`
	OverdueCount    int              `json:"overdue_count"`
	Inventory       []InventoryItem  `json:"inventory"`
	ProjectCount    int              `json:"project_count"`
	AverageProgress float64          `json:"average_progress"`
	Warnings        []string         `json:"warnings,omitempty"`
}

// ProjectRow is one line of the project list.
type ProjectRow struct {
	ID                 int           `json:"id"`
	Name               string        `json:"name"`
	Leader             string        `json:"leader"`
	Status             ProjectStatus `json:"status"`
	Progress           float64       `json:"progress"`
	ExpectedCompletion string        `json:"expected_completion"`
	CreatedAt          string        `json:"created_at"`
}

// ProjectListView lists projects oldest first.
type ProjectListView struct {
	Screen   Screen       `json:"screen"`
	Query    string       `json:"query"`
	Projects []ProjectRow `json:"projects"`
}

// ProjectCreateView shows the scratch milestone rows of the create form.
type ProjectCreateView struct {
	Screen   Screen          `json:"screen"`
	Draft    []Milestone     `json:"draft"`
	Statuses []ProjectStatus `json:"statuses"`
}

// MilestoneView decorates a milestone with its lateness.
type MilestoneView struct {
	Milestone
	Index       int    `json:"index"`
	Late        bool   `json:"late"`
	DaysOverdue int    `json:"days_overdue,omitempty"`
	Warning     string `json:"warning,omitempty"`
}

// ProjectDetailView shows one project with its milestones.
type ProjectDetailView struct {
	Screen             Screen          `json:"screen"`
	Project            Project         `json:"project"`
	Progress           float64         `json:"progress"`
	ExpectedCompletion string          `json:"expected_completion"`
	Milestones         []MilestoneView `json:"milestones"`
}

// InventoryListView is the search screen.
type InventoryListView struct {
	Screen  Screen          `json:"screen"`
	Query   string          `json:"query"`
	Columns []string        `json:"columns"`
	Items   []InventoryItem `json:"items"`
	Hint    string          `json:"hint,omitempty"`
}

// InventoryDetailView shows an item with its movement history.
type InventoryDetailView struct {
	Screen    Screen          `json:"screen"`
	Item      InventoryItem   `json:"item"`
	Movements []StockMovement `json:"movements"`
}

// PurchaseLineView decorates a request row with its computed line total.
type PurchaseLineView struct {
	PurchaseRequestRow
	Index   int             `json:"index"`
	Amount  decimal.Decimal `json:"line_total"`
	Matched bool            `json:"matched"`
}

// PurchaseRequestView shows the scratch request rows and their total.
type PurchaseRequestView struct {
	Screen Screen             `json:"screen"`
	Rows   []PurchaseLineView `json:"rows"`
	Total  decimal.Decimal    `json:"total"`
}

// MaintenanceRow decorates a task with its overdue flag.
type MaintenanceRow struct {
	MaintenanceTask
	Overdue bool `json:"overdue"`
}

// MaintenanceBoardView splits tasks into overdue ones and the rest.
type MaintenanceBoardView struct {
	Screen  Screen            `json:"screen"`
	Overdue []MaintenanceTask `json:"overdue"`
	Others  []MaintenanceTask `json:"others"`
}

// ContactGroup collects contacts sharing a category.
type ContactGroup struct {
	Category string    `json:"category"`
	Contacts []Contact `json:"contacts"`
}

// ContactsView is the read-only directory.
type ContactsView struct {
	Screen Screen         `json:"screen"`
	Groups []ContactGroup `json:"groups"`
}

// ProfileView summarizes the logged-in user's activity.
type ProfileView struct {
	Screen        Screen `json:"screen"`
	User          User   `json:"user"`
	ProjectCount  int    `json:"project_count"`
	MovementCount int    `json:"movement_count"`
}
