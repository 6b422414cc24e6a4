package projects

import (
	"context"

	"github.com/i-ashu/portfolio/internal/models"
)

// State is where a pipeline run ended. There is no intermediate state.
type State string

const (
	StateRendered State = "rendered"
	StateFailed   State = "failed"
)

// Result is the value handed to the renderer. On failure Cards is nil so no
// partial or stale data can reach the page.
type Result struct {
	State State
	Cards []models.ProjectCard
	Err   error
}

func (r Result) Failed() bool { return r.State == StateFailed }

// Build runs the source once. A cancelled context discards whatever the
// source returned.
func Build(ctx context.Context, src Source) Result {
	cards, err := src.Cards(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return Result{State: StateFailed, Err: err}
	}
	return Result{State: StateRendered, Cards: cards}
}
