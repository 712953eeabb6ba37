package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/session"
)

const (
	stateKey  = "session.state"
	forgetKey = "session.forget"
)

// Sessions binds each request to its session state through a signed cookie.
type Sessions struct {
	manager *session.Manager
	tokens  *session.Tokens
	secure  bool
	logger  *zap.Logger
}

// NewSessions builds the session middleware. secure marks cookies HTTPS-only.
func NewSessions(manager *session.Manager, tokens *session.Tokens, secure bool, logger *zap.Logger) *Sessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sessions{manager: manager, tokens: tokens, secure: secure, logger: logger}
}

// Middleware loads the state before the handler and stores it afterwards.
// Requests without a valid token start a fresh logged-out session.
func (s *Sessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var st session.State
		raw, err := c.Cookie(session.CookieName)
		claims, perr := s.tokens.Parse(raw)

		switch {
		case err != nil || perr != nil:
			if err == nil {
				s.logger.Debug("discarding session token", zap.Error(perr))
			}
			st = s.manager.Get(session.NewID())
			if err := s.issue(c, st); err != nil {
				fail(c, s.logger, err)
				return
			}
		default:
			st = s.manager.Get(claims.Subject)
			if st.LoggedIn && st.User.ID != claims.UserID {
				s.logger.Warn("session user mismatch", zap.String("session", st.ID))
				st = session.State{ID: st.ID, Screen: models.ScreenLogin}
			}
		}

		c.Set(stateKey, &st)
		c.Next()
		if c.GetBool(forgetKey) {
			return
		}
		s.manager.Update(st)
	}
}

// RequireLogin rejects anonymous sessions with 401.
func (s *Sessions) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := current(c).RequireLogin(); err != nil {
			fail(c, s.logger, err)
			return
		}
		c.Next()
	}
}

// Refresh reissues the cookie after the session user or remember flag changed.
func (s *Sessions) Refresh(c *gin.Context, st session.State) error {
	return s.issue(c, st)
}

// Forget expires the cookie and drops the server-side state.
func (s *Sessions) Forget(c *gin.Context, st *session.State) {
	s.manager.Clear(st.ID)
	c.Set(forgetKey, true)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", s.secure, true)
}

func (s *Sessions) issue(c *gin.Context, st session.State) error {
	token, exp, err := s.tokens.Issue(st.ID, st.User.ID, st.Remember)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(time.Until(exp).Seconds()), "/", "", s.secure, true)
	return nil
}

// current returns the state bound by Middleware.
func current(c *gin.Context) *session.State {
	if v, ok := c.Get(stateKey); ok {
		if st, ok := v.(*session.State); ok {
			return st
		}
	}
	return &session.State{Screen: models.ScreenLogin}
}
