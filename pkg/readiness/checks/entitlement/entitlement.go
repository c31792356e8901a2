package entitlement

import (
	"context"
	"fmt"

	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
)

// Check verifies the entitled-registry credentials with a disposable
// verification workload.
type Check struct {
	check.BaseCheck

	probe *Probe
}

// NewCheck creates the entitlement check with the production probe budget.
func NewCheck() *Check {
	return NewCheckWithProbe(NewProbe())
}

// NewCheckWithProbe creates the entitlement check over an explicit probe.
func NewCheckWithProbe(probe *Probe) *Check {
	return &Check{
		BaseCheck: check.BaseCheck{
			CheckID:   "entitlement.credentials",
			CheckName: "Registry entitlement",
		},
		probe: probe,
	}
}

func (c *Check) Run(ctx context.Context, target *check.Target) (check.Result, error) {
	state, err := c.probe.Run(ctx, target.Client)
	if err != nil {
		return check.Result{}, err
	}

	switch state {
	case StateSucceeded:
		return c.NewResult(check.VerdictPass, "registry entitlement verified"), nil
	case StateImagePullFailed:
		return c.NewResult(check.VerdictFail, "image pull failed: registry rejected the entitlement credentials"), nil
	case StateNotFound:
		return c.NewResult(check.VerdictFail, "probe pod never appeared"), nil
	case StateOtherFailure:
		return c.NewResult(check.VerdictFail, "probe workload did not produce the expected output"), nil
	default:
		return c.NewResult(check.VerdictFail, fmt.Sprintf(
			"verification did not complete within %d attempts", c.probe.attempts)), nil
	}
}
