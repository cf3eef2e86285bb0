package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrSkipped is returned by a step's Execute to mark the step as skipped
// rather than failed. The run continues with the next step.
var ErrSkipped = errors.New("step skipped")

// Runner executes steps sequentially, stopping at the first failure.
type Runner struct {
	logger *slog.Logger
	steps  []Step
}

// NewRunner creates a runner over the given steps. A nil logger falls
// back to slog.Default().
func NewRunner(logger *slog.Logger, steps ...Step) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger.With(slog.String("component", "runner")), steps: steps}
}

// Run executes every step in order against the shared state. The first
// failing step aborts the run and its error is returned wrapped with the
// step ID.
func (r *Runner) Run(ctx context.Context, state *State) error {
	r.logger.Info("pipeline run starting",
		slog.String("run_id", state.RunID),
		slog.Int("steps", len(r.steps)))

	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline canceled: %w", err)
		}

		st := state.stepState(step)
		st.start()
		r.logger.Info("step started",
			slog.String("run_id", state.RunID),
			slog.String("step", step.ID()))

		err := step.Execute(ctx, state)
		switch {
		case errors.Is(err, ErrSkipped):
			st.skip(err.Error())
			r.logger.Info("step skipped",
				slog.String("run_id", state.RunID),
				slog.String("step", step.ID()),
				slog.String("reason", err.Error()))
		case err != nil:
			st.fail(err)
			r.logger.Error("step failed",
				slog.String("run_id", state.RunID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			return fmt.Errorf("step %s: %w", step.ID(), err)
		default:
			st.complete()
			r.logger.Info("step completed",
				slog.String("run_id", state.RunID),
				slog.String("step", step.ID()),
				slog.String("duration", st.Duration().String()))
		}
	}

	r.logger.Info("pipeline run complete", slog.String("run_id", state.RunID))
	return nil
}
