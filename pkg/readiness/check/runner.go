package check

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Runner executes checks sequentially. One check's failure never aborts the
// rest: errors and panics are folded into a Fail result for that check only.
type Runner struct {
	registry *Registry
}

// NewRunner creates a runner over the given registry.
func NewRunner(registry *Registry) *Runner {
	return &Runner{
		registry: registry,
	}
}

// Run executes every registered check in order and assembles the report.
// A canceled or expired context stops execution; checks not yet run are
// recorded as Fail with the context error.
func (r *Runner) Run(ctx context.Context, target *Target) *Report {
	checks := r.registry.List()
	results := make([]Result, 0, len(checks))

	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{
				ID:      c.ID(),
				Name:    c.Name(),
				Verdict: VerdictFail,
				Message: fmt.Sprintf("not executed: %v", err),
			})

			continue
		}

		results = append(results, r.runOne(ctx, target, c))
	}

	return NewReport(results)
}

func (r *Runner) runOne(ctx context.Context, target *Target, c Check) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			log.Debugf("check %s panicked: %v", c.ID(), p)
			res = Result{
				ID:      c.ID(),
				Name:    c.Name(),
				Verdict: VerdictFail,
				Message: fmt.Sprintf("check panicked: %v", p),
			}
		}
	}()

	res, err := c.Run(ctx, target)
	if err != nil {
		return Result{
			ID:      c.ID(),
			Name:    c.Name(),
			Verdict: VerdictFail,
			Message: fmt.Sprintf("check execution failed: %v", err),
		}
	}

	return res
}
