package capacity

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
)

// Check sizes the cluster's unrequested compute capacity against the
// product sizing profiles.
type Check struct {
	check.BaseCheck

	profiles Profiles
}

// NewCheck creates the capacity check with the embedded default profiles.
func NewCheck() *Check {
	return &Check{
		BaseCheck: check.BaseCheck{
			CheckID:   "capacity.compute",
			CheckName: "Cluster compute capacity",
		},
		profiles: DefaultProfiles,
	}
}

func (c *Check) Run(ctx context.Context, target *check.Target) (check.Result, error) {
	nodes, err := target.Client.Kube().CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return check.Result{}, fmt.Errorf("listing nodes: %w", err)
	}

	pods, err := target.Client.Kube().CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return check.Result{}, fmt.Errorf("listing pods: %w", err)
	}

	samples := BuildSamples(nodes.Items, pods.Items)
	capacity := Aggregate(samples)
	classification := Classify(capacity, c.profiles)

	summary := fmt.Sprintf("%d workers, %d vCPU, %d GB memory available",
		capacity.WorkerCount, capacity.AvailableVCPU, capacity.AvailableMemoryGB)

	switch {
	case classification.Tier == check.VerdictFail:
		message := fmt.Sprintf("%s: no sizing profile met", summary)
		if capacity.UnitUnsupported {
			message += " (some resource quantities had unsupported units)"
		}

		return c.NewResult(check.VerdictFail, message), nil

	case capacity.UnitUnsupported:
		// Classification succeeded but some quantities were unreadable;
		// the totals understate real capacity.
		return c.NewResult(check.VerdictWarn, fmt.Sprintf(
			"%s: meets %s profile, but some resource quantities had unsupported units",
			summary, classification.Profile)), nil

	case classification.Tier == check.VerdictWarn:
		return c.NewResult(check.VerdictWarn, fmt.Sprintf(
			"%s: meets %s profile capacity with fewer than %d workers",
			summary, classification.Profile, c.profiles.Large.NodeCount)), nil

	default:
		return c.NewResult(check.VerdictPass, fmt.Sprintf(
			"%s: meets %s profile", summary, classification.Profile)), nil
	}
}
