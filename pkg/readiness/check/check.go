package check

import (
	"context"

	"github.com/datapak-io/readiness-cli/pkg/util/client"
)

// Target holds everything a check needs to inspect the cluster. Checks are
// read-only with one exception: the entitlement probe creates and deletes a
// single disposable verification workload.
type Target struct {
	// Client provides access to the Kubernetes API for querying resources.
	Client *client.Client

	// SkipStorage disables the storage backend check; it is recorded as
	// Skip in the report instead of being executed.
	SkipStorage bool
}

// Result is the outcome of one check run. A Result is immutable once
// recorded in a Report.
type Result struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Verdict Verdict `json:"verdict"`
	Message string  `json:"message"`
}

// Check is a single readiness check.
type Check interface {
	// ID is the stable machine identifier, e.g. "storage.backends".
	ID() string
	// Name is the human-readable check name used in the rendered report.
	Name() string
	// Run executes the check. Checks recover all of their failures into a
	// Result verdict; an error return is reserved for infrastructure
	// faults the runner converts into a Fail result.
	Run(ctx context.Context, target *Target) (Result, error)
}

// BaseCheck provides the metadata half of the Check interface.
type BaseCheck struct {
	CheckID   string
	CheckName string
}

func (b *BaseCheck) ID() string {
	return b.CheckID
}

func (b *BaseCheck) Name() string {
	return b.CheckName
}

// NewResult builds a Result carrying the check's identity.
func (b *BaseCheck) NewResult(verdict Verdict, message string) Result {
	return Result{
		ID:      b.CheckID,
		Name:    b.CheckName,
		Verdict: verdict,
		Message: message,
	}
}
