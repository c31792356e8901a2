package storage

import (
	"context"
	"fmt"
	"strings"

	storagev1 "k8s.io/api/storage/v1"

	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
	"github.com/datapak-io/readiness-cli/pkg/util/client"
)

// Backend is one storage backend family: a presence probe plus the
// structural validation run only when the backend is detected.
type Backend interface {
	ID() string
	Detect(ctx context.Context, c *client.Client) (bool, error)
	Validate(ctx context.Context, c *client.Client) ProbeResult
}

// ProbeResult is the outcome of validating one detected backend.
type ProbeResult struct {
	Backend string
	Verdict check.Verdict
	Reason  string
}

// Fold reduces validated backend results with the worst-wins rule. The
// fold is associative and commutative, so the probe order never affects
// the outcome. Undetected backends are excluded before the fold, never
// Skip-scored.
func Fold(results []ProbeResult) check.Verdict {
	verdicts := make([]check.Verdict, 0, len(results))
	for _, r := range results {
		verdicts = append(verdicts, r.Verdict)
	}

	return check.Worst(verdicts...)
}

// Check detects which storage backends are present and validates each one
// found. At least one supported backend is mandatory.
type Check struct {
	check.BaseCheck

	backends []Backend
}

// NewCheck creates the storage check over the supported backend families.
func NewCheck() *Check {
	return NewCheckWithBackends(
		NewODF(),
		NewPortworx(),
		NewIBMCloud(),
		NewFusion(),
	)
}

// NewCheckWithBackends creates the storage check over an explicit backend
// set.
func NewCheckWithBackends(backends ...Backend) *Check {
	return &Check{
		BaseCheck: check.BaseCheck{
			CheckID:   "storage.backends",
			CheckName: "Storage backend readiness",
		},
		backends: backends,
	}
}

func (c *Check) Run(ctx context.Context, target *check.Target) (check.Result, error) {
	if target.SkipStorage {
		return c.NewResult(check.VerdictSkip, "storage check disabled"), nil
	}

	results := make([]ProbeResult, 0, len(c.backends))

	for _, backend := range c.backends {
		present, err := backend.Detect(ctx, target.Client)
		if err != nil {
			results = append(results, ProbeResult{
				Backend: backend.ID(),
				Verdict: check.VerdictFail,
				Reason:  fmt.Sprintf("detection failed: %v", err),
			})

			continue
		}

		if !present {
			continue
		}

		results = append(results, backend.Validate(ctx, target.Client))
	}

	if len(results) == 0 {
		return c.NewResult(check.VerdictFail, "no supported storage backend detected"), nil
	}

	reasons := make([]string, 0, len(results))
	for _, r := range results {
		reasons = append(reasons, fmt.Sprintf("%s: %s", r.Backend, r.Reason))
	}

	return c.NewResult(Fold(results), strings.Join(reasons, "; ")), nil
}

// expansionEnabled reports whether the class allows volume expansion. An
// absent flag counts as false, same as an explicit false.
func expansionEnabled(sc *storagev1.StorageClass) bool {
	return sc.AllowVolumeExpansion != nil && *sc.AllowVolumeExpansion
}
