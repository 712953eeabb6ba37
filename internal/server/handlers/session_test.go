package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/session"
)

func TestMiddlewareDropsForeignUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := session.NewManager()
	tokens := session.NewTokens("test-secret-0123456789", time.Hour)
	sessions := NewSessions(manager, tokens, false, nil)

	manager.Update(session.State{ID: "s1", LoggedIn: true, User: models.User{ID: "admin"}, Screen: models.ScreenDashboard})
	token, _, err := tokens.Issue("s1", "intruder", false)
	if err != nil {
		t.Fatal(err)
	}

	var seen session.State
	r := gin.New()
	r.GET("/", sessions.Middleware(), func(c *gin.Context) {
		seen = *current(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	r.ServeHTTP(httptest.NewRecorder(), req)

	if seen.LoggedIn || seen.ID != "s1" {
		t.Fatalf("state = %+v", seen)
	}
}

func TestMiddlewareIssuesCookieForNewSessions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := session.NewManager()
	sessions := NewSessions(manager, session.NewTokens("test-secret-0123456789", time.Hour), false, nil)

	r := gin.New()
	r.GET("/", sessions.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.CookieName || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}
	if manager.Len() != 1 {
		t.Fatalf("sessions = %d", manager.Len())
	}
}
