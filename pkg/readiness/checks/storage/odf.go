package storage

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/datapak-io/readiness-cli/pkg/constants"
	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
	"github.com/datapak-io/readiness-cli/pkg/util/client"
)

const odfStorageClusterCRD = "storageclusters.ocs.openshift.io"

//nolint:gochecknoglobals
var (
	odfStorageClasses = []string{
		"ocs-storagecluster-cephfs",
		"ocs-storagecluster-ceph-rbd",
	}

	// odfPodPrefixes are the operator pods that must be healthy in the
	// openshift-storage namespace for the backend to be usable.
	odfPodPrefixes = []string{
		"ocs-operator",
		"rook-ceph-mgr",
		"rook-ceph-mon",
		"rook-ceph-osd",
	}
)

// ODF validates an OpenShift Data Foundation (distributed ceph) backend.
type ODF struct{}

func NewODF() *ODF {
	return &ODF{}
}

func (o *ODF) ID() string {
	return "odf"
}

// Detect reports presence by the StorageCluster CRD.
func (o *ODF) Detect(ctx context.Context, c *client.Client) (bool, error) {
	return c.HasCRD(ctx, odfStorageClusterCRD)
}

// Validate requires both ceph storage classes with volume expansion and
// all operator pods healthy. A missing class degrades to Warn; a missing
// expansion flag or an unhealthy pod is a Fail.
func (o *ODF) Validate(ctx context.Context, c *client.Client) ProbeResult {
	verdicts := make([]check.Verdict, 0, len(odfStorageClasses)+len(odfPodPrefixes))
	reasons := make([]string, 0, 4)

	for _, name := range odfStorageClasses {
		sc, err := c.StorageClass(ctx, name)

		switch {
		case err != nil:
			verdicts = append(verdicts, check.VerdictFail)
			reasons = append(reasons, fmt.Sprintf("storage class %s: %v", name, err))
		case sc == nil:
			verdicts = append(verdicts, check.VerdictWarn)
			reasons = append(reasons, fmt.Sprintf("storage class %s not found", name))
		case !expansionEnabled(sc):
			verdicts = append(verdicts, check.VerdictFail)
			reasons = append(reasons, fmt.Sprintf("storage class %s does not allow volume expansion", name))
		default:
			verdicts = append(verdicts, check.VerdictPass)
		}
	}

	pods, err := c.ListPods(ctx, constants.ODFNamespace, "")
	if err != nil {
		return ProbeResult{
			Backend: o.ID(),
			Verdict: check.VerdictFail,
			Reason:  fmt.Sprintf("listing pods in %s: %v", constants.ODFNamespace, err),
		}
	}

	for _, prefix := range odfPodPrefixes {
		healthy, found := podPrefixHealthy(pods.Items, prefix)

		switch {
		case !found:
			verdicts = append(verdicts, check.VerdictFail)
			reasons = append(reasons, fmt.Sprintf("no %s pod found in %s", prefix, constants.ODFNamespace))
		case !healthy:
			verdicts = append(verdicts, check.VerdictFail)
			reasons = append(reasons, fmt.Sprintf("%s pod not running in %s", prefix, constants.ODFNamespace))
		default:
			verdicts = append(verdicts, check.VerdictPass)
		}
	}

	reason := "storage classes and operator pods healthy"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, ", ")
	}

	return ProbeResult{
		Backend: o.ID(),
		Verdict: check.Worst(verdicts...),
		Reason:  reason,
	}
}

// podPrefixHealthy reports whether any pod with the given name prefix
// exists and whether all matching pods are Running or Succeeded.
func podPrefixHealthy(pods []corev1.Pod, prefix string) (healthy bool, found bool) {
	healthy = true

	for i := range pods {
		if !strings.HasPrefix(pods[i].Name, prefix) {
			continue
		}

		found = true

		if pods[i].Status.Phase != corev1.PodRunning && pods[i].Status.Phase != corev1.PodSucceeded {
			healthy = false
		}
	}

	return healthy && found, found
}
