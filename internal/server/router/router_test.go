package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/nccfarm/internal/config"
	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/repository/memory"
	"github.com/mamadbah2/nccfarm/internal/server/handlers"
	"github.com/mamadbah2/nccfarm/internal/server/router"
	"github.com/mamadbah2/nccfarm/internal/service/alerts"
	"github.com/mamadbah2/nccfarm/internal/service/auth"
	"github.com/mamadbah2/nccfarm/internal/service/dashboard"
	"github.com/mamadbah2/nccfarm/internal/service/directory"
	"github.com/mamadbah2/nccfarm/internal/service/inventory"
	"github.com/mamadbah2/nccfarm/internal/service/maintenance"
	"github.com/mamadbah2/nccfarm/internal/service/navigation"
	"github.com/mamadbah2/nccfarm/internal/service/projects"
	"github.com/mamadbah2/nccfarm/internal/service/purchase"
	"github.com/mamadbah2/nccfarm/internal/service/seed"
	"github.com/mamadbah2/nccfarm/internal/session"
)

type client struct {
	t      *testing.T
	engine *gin.Engine
	cookie *http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	seeder := seed.NewService(store, nil, config.DataConfig{}, nil)
	authSvc := auth.NewService(seeder, "ncc", nil)
	projectSvc := projects.NewService(store, nil)
	inventorySvc := inventory.NewService(store, nil)
	purchaseSvc := purchase.NewService(store, nil, nil)
	maintenanceSvc := maintenance.NewService(store, nil)
	directorySvc := directory.NewService(store, nil)
	dashboardSvc := dashboard.NewService(store, maintenanceSvc, seeder, nil)
	alertSvc := alerts.NewService(store, nil, "", nil)

	nav, err := navigation.New(map[models.Screen]navigation.Renderer{
		models.ScreenLogin:           navigation.View(authSvc.LoginView),
		models.ScreenDashboard:       navigation.View(dashboardSvc.Overview),
		models.ScreenProjectList:     navigation.View(projectSvc.List),
		models.ScreenProjectCreate:   navigation.View(projectSvc.CreateForm),
		models.ScreenProjectDetail:   navigation.View(projectSvc.Detail),
		models.ScreenInventoryList:   navigation.View(inventorySvc.List),
		models.ScreenInventoryDetail: navigation.View(inventorySvc.Detail),
		models.ScreenPurchaseRequest: navigation.View(purchaseSvc.View),
		models.ScreenMaintenance:     navigation.View(maintenanceSvc.Board),
		models.ScreenContacts:        navigation.View(directorySvc.Contacts),
		models.ScreenProfile:         navigation.View(directorySvc.Profile),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	sessions := handlers.NewSessions(session.NewManager(), session.NewTokens("test-secret-0123456789", time.Hour), false, nil)
	engine := router.New(router.Handlers{
		Sessions:    sessions,
		Screens:     handlers.NewScreenHandler(authSvc, nav, sessions, nil),
		Projects:    handlers.NewProjectHandler(projectSvc, nil),
		Inventory:   handlers.NewInventoryHandler(inventorySvc, nil),
		Purchase:    handlers.NewPurchaseHandler(purchaseSvc, nil),
		Maintenance: handlers.NewMaintenanceHandler(maintenanceSvc, nil),
		Directory:   handlers.NewDirectoryHandler(directorySvc, alertSvc, nil),
	}, nil)

	return &client{t: t, engine: engine}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			c.cookie = ck
		}
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func expect(t *testing.T, w *httptest.ResponseRecorder, status int) map[string]any {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d, body = %s", w.Code, status, w.Body.String())
	}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		return decode(t, w)
	}
	return nil
}

func TestHealthz(t *testing.T) {
	c := newClient(t)
	body := expect(t, c.do(http.MethodGet, "/healthz", nil), http.StatusOK)
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestLoggedOutSessionsSeeLogin(t *testing.T) {
	c := newClient(t)

	body := expect(t, c.do(http.MethodGet, "/api/screen", nil), http.StatusOK)
	if body["screen"] != string(models.ScreenLogin) {
		t.Fatalf("screen = %v", body["screen"])
	}

	expect(t, c.do(http.MethodPost, "/api/navigate", map[string]string{"screen": "inventory_list"}), http.StatusOK)
	body = expect(t, c.do(http.MethodGet, "/api/screen", nil), http.StatusOK)
	if body["screen"] != string(models.ScreenLogin) {
		t.Fatalf("screen after navigate = %v", body["screen"])
	}

	expect(t, c.do(http.MethodGet, "/api/projects", nil), http.StatusUnauthorized)
}

func TestLoginValidation(t *testing.T) {
	c := newClient(t)

	body := expect(t, c.do(http.MethodPost, "/api/login", map[string]string{"username": " "}), http.StatusBadRequest)
	fields, _ := body["fields"].(map[string]any)
	if fields["username"] != "is required" {
		t.Fatalf("body = %v", body)
	}
}

func TestProjectFlow(t *testing.T) {
	c := newClient(t)

	body := expect(t, c.do(http.MethodPost, "/api/login", map[string]any{"username": "Staff01", "password": "x"}), http.StatusOK)
	if body["screen"] != string(models.ScreenProjectList) {
		t.Fatalf("landing screen = %v", body["screen"])
	}
	seeded, _ := body["projects"].([]any)
	if len(seeded) == 0 {
		t.Fatal("workspace was not seeded")
	}

	body = expect(t, c.do(http.MethodGet, "/api/projects?q=FENCE", nil), http.StatusOK)
	found, _ := body["projects"].([]any)
	if len(found) != 1 || found[0].(map[string]any)["name"] != "East fence replacement" {
		t.Fatalf("project search = %v", found)
	}
	expect(t, c.do(http.MethodGet, "/api/projects?q=", nil), http.StatusOK)

	expect(t, c.do(http.MethodPost, "/api/projects/draft/milestones", nil), http.StatusOK)
	expect(t, c.do(http.MethodPost, "/api/projects/draft/milestones", nil), http.StatusOK)
	expect(t, c.do(http.MethodPut, "/api/projects/draft/milestones/0", map[string]any{"content": "dig", "end": "2000-01-01"}), http.StatusOK)
	body = expect(t, c.do(http.MethodDelete, "/api/projects/draft/milestones/1", nil), http.StatusOK)
	if draft, _ := body["draft"].([]any); len(draft) != 1 {
		t.Fatalf("draft = %v", body["draft"])
	}
	expect(t, c.do(http.MethodDelete, "/api/projects/draft/milestones/7", nil), http.StatusBadRequest)

	expect(t, c.do(http.MethodPost, "/api/projects", map[string]any{"leader": "Staff01"}), http.StatusBadRequest)

	body = expect(t, c.do(http.MethodPost, "/api/projects", map[string]any{
		"name":    "Cold store",
		"leader":  "Staff01",
		"members": []string{"Staff02", "Staff02"},
	}), http.StatusCreated)
	if body["screen"] != string(models.ScreenProjectDetail) {
		t.Fatalf("screen = %v", body["screen"])
	}
	project, _ := body["project"].(map[string]any)
	id := int(project["id"].(float64))
	milestones, _ := body["milestones"].([]any)
	first, _ := milestones[0].(map[string]any)
	if first["late"] != true {
		t.Fatalf("milestone = %v", first)
	}

	path := "/api/projects/" + strconv.Itoa(id) + "/milestones/0"
	body = expect(t, c.do(http.MethodPut, path, map[string]bool{"done": true}), http.StatusOK)
	if body["progress"] != 1.0 {
		t.Fatalf("progress = %v", body["progress"])
	}
	body = expect(t, c.do(http.MethodPut, path, map[string]bool{"done": false}), http.StatusOK)
	if body["progress"] != 0.0 {
		t.Fatalf("progress after uncheck = %v", body["progress"])
	}

	expect(t, c.do(http.MethodGet, "/api/projects/999", nil), http.StatusNotFound)

	body = expect(t, c.do(http.MethodGet, "/api/screen", nil), http.StatusOK)
	if body["screen"] != string(models.ScreenProjectDetail) {
		t.Fatalf("current screen = %v", body["screen"])
	}
}

func TestInventoryAndPurchaseFlow(t *testing.T) {
	c := newClient(t)
	expect(t, c.do(http.MethodPost, "/api/login", map[string]any{"username": "admin", "role": "admin"}), http.StatusOK)

	body := expect(t, c.do(http.MethodGet, "/api/inventory?q=nothing-like-this", nil), http.StatusOK)
	if body["hint"] == nil || body["hint"] == "" {
		t.Fatalf("body = %v", body)
	}

	expect(t, c.do(http.MethodPost, "/api/inventory", map[string]any{"sku": "T-1", "name": "Tape", "quantity": 2, "unit_price": "3.50"}), http.StatusCreated)
	expect(t, c.do(http.MethodPost, "/api/inventory", map[string]any{"sku": "T-1", "name": "Tape"}), http.StatusConflict)

	body = expect(t, c.do(http.MethodPost, "/api/inventory/T-1/adjust", map[string]any{"delta": 3}), http.StatusOK)
	item, _ := body["item"].(map[string]any)
	if item["quantity"] != 5.0 {
		t.Fatalf("item = %v", item)
	}
	expect(t, c.do(http.MethodPost, "/api/inventory/T-1/issue", map[string]any{"quantity": 9}), http.StatusConflict)
	body = expect(t, c.do(http.MethodPost, "/api/inventory/T-1/issue", map[string]any{"quantity": 5}), http.StatusOK)
	if moves, _ := body["movements"].([]any); len(moves) != 2 {
		t.Fatalf("movements = %v", body["movements"])
	}
	expect(t, c.do(http.MethodGet, "/api/inventory/NOPE", nil), http.StatusNotFound)

	body = expect(t, c.do(http.MethodPost, "/api/purchase/rows", map[string]any{"name": "Tape", "quantity": 4}), http.StatusCreated)
	if body["total"] != "14" {
		t.Fatalf("total = %v", body["total"])
	}

	w := c.do(http.MethodGet, "/api/purchase/export?format=csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "Purchase Request.csv") {
		t.Fatalf("disposition = %q", w.Header().Get("Content-Disposition"))
	}
	if !strings.Contains(w.Body.String(), "Tape,,4,,,3.50,admin,14.00") {
		t.Fatalf("csv = %q", w.Body.String())
	}

	body = expect(t, c.do(http.MethodGet, "/api/purchase", nil), http.StatusOK)
	if rows, _ := body["rows"].([]any); len(rows) != 0 {
		t.Fatalf("draft not cleared: %v", body["rows"])
	}
}

func TestMaintenanceDirectoryAndLogout(t *testing.T) {
	c := newClient(t)
	expect(t, c.do(http.MethodPost, "/api/login", map[string]any{"username": "Staff02"}), http.StatusOK)

	body := expect(t, c.do(http.MethodPost, "/api/maintenance", map[string]any{"name": "Roof check", "due_date": "2000-01-01"}), http.StatusCreated)
	overdue, _ := body["overdue"].([]any)
	found := false
	for _, o := range overdue {
		if task, _ := o.(map[string]any); task["name"] == "Roof check" {
			found = true
		}
	}
	if !found {
		t.Fatalf("new overdue task missing from %v", overdue)
	}
	expect(t, c.do(http.MethodPost, "/api/maintenance", map[string]any{"name": "x"}), http.StatusBadRequest)
	expect(t, c.do(http.MethodPut, "/api/maintenance/999", map[string]any{"done": true}), http.StatusNotFound)
	expect(t, c.do(http.MethodPut, "/api/maintenance/1", map[string]any{}), http.StatusBadRequest)

	body = expect(t, c.do(http.MethodGet, "/api/contacts", nil), http.StatusOK)
	if groups, _ := body["groups"].([]any); len(groups) == 0 {
		t.Fatal("no contact groups")
	}
	body = expect(t, c.do(http.MethodGet, "/api/profile", nil), http.StatusOK)
	if user, _ := body["user"].(map[string]any); user["id"] != "Staff02" {
		t.Fatalf("profile = %v", body)
	}
	body = expect(t, c.do(http.MethodGet, "/api/alerts", nil), http.StatusOK)
	if tasks, _ := body["overdue_tasks"].([]any); len(tasks) == 0 {
		t.Fatalf("alerts = %v", body)
	}

	expect(t, c.do(http.MethodPost, "/api/navigate", map[string]string{"screen": "nowhere"}), http.StatusBadRequest)

	body = expect(t, c.do(http.MethodPost, "/api/logout", nil), http.StatusOK)
	if body["screen"] != string(models.ScreenLogin) {
		t.Fatalf("after logout = %v", body)
	}
	expect(t, c.do(http.MethodGet, "/api/profile", nil), http.StatusUnauthorized)
}

func TestMetricsEndpoint(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodGet, "/healthz", nil)

	w := c.do(http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_request_duration_seconds") {
		t.Fatalf("metrics status = %d", w.Code)
	}
}
