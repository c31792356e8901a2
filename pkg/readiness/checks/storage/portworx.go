package storage

import (
	"context"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
	"github.com/datapak-io/readiness-cli/pkg/util/client"
	"github.com/datapak-io/readiness-cli/pkg/util/jq"
)

const portworxStorageClusterCRD = "storageclusters.core.libopenstorage.org"

//nolint:gochecknoglobals
var (
	portworxStorageClusterGVR = schema.GroupVersionResource{
		Group:    "core.libopenstorage.org",
		Version:  "v1",
		Resource: "storageclusters",
	}

	portworxStorageClasses = []string{
		"portworx-shared-gp3",
		"portworx-db2-rwx-sc",
	}

	// portworxOnline matches a StorageCluster reporting an Online phase,
	// whatever casing the operator release uses.
	portworxOnline = jq.Predicate(`(.status.phase // "" | ascii_downcase) == "online"`)
)

// Portworx validates a Portworx backend through its two product storage
// classes. There is no pod check; cluster health comes from the
// StorageCluster CR itself.
type Portworx struct{}

func NewPortworx() *Portworx {
	return &Portworx{}
}

func (p *Portworx) ID() string {
	return "portworx"
}

// Detect requires the StorageCluster CRD plus at least one cluster
// reporting an Online phase.
func (p *Portworx) Detect(ctx context.Context, c *client.Client) (bool, error) {
	installed, err := c.HasCRD(ctx, portworxStorageClusterCRD)
	if err != nil || !installed {
		return false, err
	}

	clusters, err := c.ListUnstructured(ctx, portworxStorageClusterGVR, "")
	if err != nil {
		return false, err
	}

	for i := range clusters.Items {
		online, err := portworxOnline(&clusters.Items[i])
		if err != nil {
			continue
		}

		if online {
			return true, nil
		}
	}

	return false, nil
}

// Validate checks the two product storage classes: an absent class is a
// Warn and the other class is still checked; a present class without
// volume expansion is a Fail.
func (p *Portworx) Validate(ctx context.Context, c *client.Client) ProbeResult {
	verdicts := make([]check.Verdict, 0, len(portworxStorageClasses))
	reasons := make([]string, 0, len(portworxStorageClasses))

	for _, name := range portworxStorageClasses {
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

	reason := "storage classes healthy"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, ", ")
	}

	return ProbeResult{
		Backend: p.ID(),
		Verdict: check.Worst(verdicts...),
		Reason:  reason,
	}
}
