package capacity

import (
	_ "embed"
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
)

//go:embed profiles.yaml
var profilesYAML []byte

// ProfileThreshold is one named sizing tier the product defines.
type ProfileThreshold struct {
	NodeCount int   `json:"nodeCount"`
	VCPU      int64 `json:"vcpu"`
	MemoryGB  int64 `json:"memoryGB"`
}

// Profiles holds the two sizing tiers.
type Profiles struct {
	Small ProfileThreshold `json:"small"`
	Large ProfileThreshold `json:"large"`
}

// DefaultProfiles are the product sizing tiers, loaded once from the
// embedded profile definition.
//
//nolint:gochecknoglobals
var DefaultProfiles = mustLoadProfiles()

func mustLoadProfiles() Profiles {
	var p Profiles
	if err := yaml.Unmarshal(profilesYAML, &p); err != nil {
		panic(fmt.Sprintf("invalid embedded profiles: %v", err))
	}

	return p
}

// Classification is the outcome of sizing a cluster against the profiles.
type Classification struct {
	// Profile is "Large", "Small", or "" when neither tier is met.
	Profile string
	Tier    check.Verdict
}

// Classify sizes the cluster against the two profiles. Worker count 5 or
// fewer is a Fail regardless of raw capacity. Large thresholds with 10 or
// more workers is a Large Pass; Large thresholds with 6 to 9 workers is a
// Large Warn (the capacity is sufficient but the node count leaves little
// resilience headroom). When Large is not met, Small is evaluated
// independently against its own thresholds; meeting neither tier is a Fail.
func Classify(capacity ClusterCapacity, profiles Profiles) Classification {
	const minWorkers = 6

	if capacity.WorkerCount < minWorkers {
		return Classification{Tier: check.VerdictFail}
	}

	if capacity.AvailableVCPU >= profiles.Large.VCPU && capacity.AvailableMemoryGB >= profiles.Large.MemoryGB {
		if capacity.WorkerCount >= profiles.Large.NodeCount {
			return Classification{Profile: "Large", Tier: check.VerdictPass}
		}

		return Classification{Profile: "Large", Tier: check.VerdictWarn}
	}

	if meets(capacity, profiles.Small) {
		return Classification{Profile: "Small", Tier: check.VerdictPass}
	}

	return Classification{Tier: check.VerdictFail}
}

func meets(capacity ClusterCapacity, threshold ProfileThreshold) bool {
	return capacity.WorkerCount >= threshold.NodeCount &&
		capacity.AvailableVCPU >= threshold.VCPU &&
		capacity.AvailableMemoryGB >= threshold.MemoryGB
}
