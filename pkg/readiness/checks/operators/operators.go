package operators

import (
	"context"
	"fmt"
	"strings"

	operatorsv1alpha1 "github.com/operator-framework/api/pkg/operators/v1alpha1"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
)

// Check verifies one operator is installed by scanning ClusterServiceVersions
// for a name prefix. Installed and ready is a Pass, installed but not yet
// reconciled is a Warn, absent is a Fail.
type Check struct {
	check.BaseCheck

	csvPrefix string
	display   string
}

// NewCommonServicesCheck verifies the foundational services operator the
// product depends on.
func NewCommonServicesCheck() *Check {
	return &Check{
		BaseCheck: check.BaseCheck{
			CheckID:   "operators.common-services",
			CheckName: "Common services operator",
		},
		csvPrefix: "ibm-common-service-operator",
		display:   "common services operator",
	}
}

// NewLicenseServiceCheck verifies the licensing operator.
func NewLicenseServiceCheck() *Check {
	return &Check{
		BaseCheck: check.BaseCheck{
			CheckID:   "operators.license-service",
			CheckName: "License service operator",
		},
		csvPrefix: "ibm-licensing-operator",
		display:   "license service operator",
	}
}

func (c *Check) Run(ctx context.Context, target *check.Target) (check.Result, error) {
	csvs, err := target.Client.OLM().OperatorsV1alpha1().
		ClusterServiceVersions(metav1.NamespaceAll).
		List(ctx, metav1.ListOptions{})
	if err != nil {
		return check.Result{}, fmt.Errorf("listing cluster service versions: %w", err)
	}

	var found *operatorsv1alpha1.ClusterServiceVersion

	for i := range csvs.Items {
		if strings.HasPrefix(csvs.Items[i].Name, c.csvPrefix) {
			found = &csvs.Items[i]

			break
		}
	}

	switch {
	case found == nil:
		return c.NewResult(check.VerdictFail, fmt.Sprintf("%s is not installed", c.display)), nil
	case found.Status.Phase != operatorsv1alpha1.CSVPhaseSucceeded:
		return c.NewResult(check.VerdictWarn, fmt.Sprintf(
			"%s is installed but not ready (phase %s)", c.display, found.Status.Phase)), nil
	default:
		return c.NewResult(check.VerdictPass, fmt.Sprintf(
			"%s %s is ready", c.display, found.Spec.Version)), nil
	}
}
