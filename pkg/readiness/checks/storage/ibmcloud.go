package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
	"github.com/datapak-io/readiness-cli/pkg/util/client"
)

const (
	ibmBlockStorageClass = "ibmc-block-gold"
	ibmFileStorageClass  = "ibmc-file-gold-gid"
)

// IBMCloud validates the IBM Cloud block plus file storage pair. Both
// classes are required; the backend counts as detected when either one is
// present.
type IBMCloud struct{}

func NewIBMCloud() *IBMCloud {
	return &IBMCloud{}
}

func (i *IBMCloud) ID() string {
	return "ibm-cloud"
}

func (i *IBMCloud) Detect(ctx context.Context, c *client.Client) (bool, error) {
	for _, name := range []string{ibmBlockStorageClass, ibmFileStorageClass} {
		sc, err := c.StorageClass(ctx, name)
		if err != nil {
			return false, err
		}

		if sc != nil {
			return true, nil
		}
	}

	return false, nil
}

// Validate requires both the block and the file class to exist with
// volume expansion; a miss on either is a Fail.
func (i *IBMCloud) Validate(ctx context.Context, c *client.Client) ProbeResult {
	verdicts := make([]check.Verdict, 0, 2)
	reasons := make([]string, 0, 2)

	for _, name := range []string{ibmBlockStorageClass, ibmFileStorageClass} {
		sc, err := c.StorageClass(ctx, name)

		switch {
		case err != nil:
			verdicts = append(verdicts, check.VerdictFail)
			reasons = append(reasons, fmt.Sprintf("storage class %s: %v", name, err))
		case sc == nil:
			verdicts = append(verdicts, check.VerdictFail)
			reasons = append(reasons, fmt.Sprintf("storage class %s not found", name))
		case !expansionEnabled(sc):
			verdicts = append(verdicts, check.VerdictFail)
			reasons = append(reasons, fmt.Sprintf("storage class %s does not allow volume expansion", name))
		default:
			verdicts = append(verdicts, check.VerdictPass)
		}
	}

	reason := "block and file storage classes healthy"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, ", ")
	}

	return ProbeResult{
		Backend: i.ID(),
		Verdict: check.Worst(verdicts...),
		Reason:  reason,
	}
}
