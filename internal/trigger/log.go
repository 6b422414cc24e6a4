package trigger

import (
	"context"

	"go.uber.org/zap"
)

// Log registers handlers that record pipeline and contact events.
func Log(r *Registry, logger *zap.Logger) {
	r.Register(ProjectsRendered, func(_ context.Context, ev Event) {
		logger.Debug("projects grid rendered", zap.Int("cards", ev.Count))
	})
	r.Register(ProjectsFailed, func(_ context.Context, ev Event) {
		logger.Warn("projects grid failed", zap.Error(ev.Err))
	})
	r.Register(ContactSubmitted, func(_ context.Context, ev Event) {
		logger.Debug("contact submission received")
	})
}
