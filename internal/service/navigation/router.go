// Package navigation maps every dashboard screen to the renderer that builds
// its view.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/session"
)

// ErrMissingRenderer is returned by New when a screen has no renderer.
var ErrMissingRenderer = errors.New("screen has no renderer")

// Renderer builds the view of one screen for a session.
type Renderer func(ctx context.Context, st session.State) (any, error)

// View adapts a typed screen function into a Renderer.
func View[V any](fn func(context.Context, session.State) (V, error)) Renderer {
	return func(ctx context.Context, st session.State) (any, error) {
		return fn(ctx, st)
	}
}

// Router dispatches sessions to the renderer of their current screen.
type Router struct {
	renderers map[models.Screen]Renderer
	logger    *zap.Logger
}

// New builds a router and fails when any screen lacks a renderer.
func New(renderers map[models.Screen]Renderer, logger *zap.Logger) (*Router, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var missing []string
	table := make(map[models.Screen]Renderer, len(models.AllScreens))
	for _, screen := range models.AllScreens {
		fn, ok := renderers[screen]
		if !ok || fn == nil {
			missing = append(missing, string(screen))
			continue
		}
		table[screen] = fn
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingRenderer, strings.Join(missing, ", "))
	}

	return &Router{renderers: table, logger: logger}, nil
}

// Navigate moves the session to target. It only assigns the screen.
func (r *Router) Navigate(st *session.State, target string) error {
	screen, err := models.ParseScreen(strings.TrimSpace(target))
	if err != nil {
		return fmt.Errorf("navigate to %q: %w", target, err)
	}
	st.Screen = screen
	return nil
}

// Render builds the view of the session's current screen. Logged-out
// sessions always get the login screen.
func (r *Router) Render(ctx context.Context, st session.State) (any, error) {
	screen := st.Screen
	if !st.LoggedIn {
		screen = models.ScreenLogin
	}

	fn, ok := r.renderers[screen]
	if !ok {
		r.logger.Warn("session on unknown screen", zap.String("screen", string(screen)), zap.String("session", st.ID))
		return nil, fmt.Errorf("render %q: %w", screen, models.ErrUnknownScreen)
	}
	return fn(ctx, st)
}
