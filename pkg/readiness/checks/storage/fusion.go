package storage

import (
	"context"
	"fmt"

	"github.com/blang/semver/v4"

	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
	"github.com/datapak-io/readiness-cli/pkg/util/client"
	"github.com/datapak-io/readiness-cli/pkg/util/version"
)

const (
	fusionCRD          = "spectrumfusions.prod.isf.ibm.com"
	fusionStorageClass = "ibm-spectrum-scale-sc"
)

// fusionPlatform is the platform release Spectrum Fusion is certified
// against. The gate is an exact major.minor match, not a minimum.
//
//nolint:gochecknoglobals
var fusionPlatform = semver.MustParse("4.12.0")

// Fusion validates a Spectrum Fusion backend. It is version-gated: the
// platform must match the certified release exactly, otherwise the backend
// fails regardless of storage class state.
type Fusion struct {
	platform *semver.Version
}

func NewFusion() *Fusion {
	return &Fusion{
		platform: &fusionPlatform,
	}
}

func (f *Fusion) ID() string {
	return "spectrum-fusion"
}

func (f *Fusion) Detect(ctx context.Context, c *client.Client) (bool, error) {
	return c.HasCRD(ctx, fusionCRD)
}

func (f *Fusion) Validate(ctx context.Context, c *client.Client) ProbeResult {
	detected, err := version.DetectPlatform(ctx, c)
	if err != nil {
		return ProbeResult{
			Backend: f.ID(),
			Verdict: check.VerdictFail,
			Reason:  fmt.Sprintf("detecting platform version: %v", err),
		}
	}

	if !version.SameMajorMinor(detected, f.platform) {
		return ProbeResult{
			Backend: f.ID(),
			Verdict: check.VerdictFail,
			Reason: fmt.Sprintf("platform %s does not match certified release %s",
				version.MajorMinorLabel(detected), version.MajorMinorLabel(f.platform)),
		}
	}

	sc, err := c.StorageClass(ctx, fusionStorageClass)

	switch {
	case err != nil:
		return ProbeResult{
			Backend: f.ID(),
			Verdict: check.VerdictFail,
			Reason:  fmt.Sprintf("storage class %s: %v", fusionStorageClass, err),
		}
	case sc == nil:
		return ProbeResult{
			Backend: f.ID(),
			Verdict: check.VerdictFail,
			Reason:  fmt.Sprintf("storage class %s not found", fusionStorageClass),
		}
	case !expansionEnabled(sc):
		return ProbeResult{
			Backend: f.ID(),
			Verdict: check.VerdictFail,
			Reason:  fmt.Sprintf("storage class %s does not allow volume expansion", fusionStorageClass),
		}
	}

	return ProbeResult{
		Backend: f.ID(),
		Verdict: check.VerdictPass,
		Reason:  fmt.Sprintf("platform %s certified, storage class healthy", version.MajorMinorLabel(detected)),
	}
}
