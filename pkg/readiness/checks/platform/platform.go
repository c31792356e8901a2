package platform

import (
	"context"
	"fmt"

	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
	"github.com/datapak-io/readiness-cli/pkg/util/version"
)

// The product installs on platform releases in [4.12, 4.17).
const (
	minMajor = 4
	minMinor = 12
	capMajor = 4
	capMinor = 17

	supportedRangeLabel = "4.12 through 4.16"
)

// Check verifies the platform version sits inside the supported window.
type Check struct {
	check.BaseCheck
}

func NewCheck() *Check {
	return &Check{
		BaseCheck: check.BaseCheck{
			CheckID:   "platform.version",
			CheckName: "Platform version",
		},
	}
}

func (c *Check) Run(ctx context.Context, target *check.Target) (check.Result, error) {
	detected, err := version.DetectPlatform(ctx, target.Client)
	if err != nil {
		return c.NewResult(check.VerdictFail, fmt.Sprintf("could not determine platform version: %v", err)), nil
	}

	supported := version.IsVersionAtLeast(detected, minMajor, minMinor) &&
		!version.IsVersionAtLeast(detected, capMajor, capMinor)

	if !supported {
		return c.NewResult(check.VerdictFail, fmt.Sprintf(
			"platform %s is outside the supported range (%s)", detected, supportedRangeLabel)), nil
	}

	return c.NewResult(check.VerdictPass, fmt.Sprintf("platform %s is supported", detected)), nil
}
