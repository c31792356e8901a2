package version

import (
	"context"
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/go-viper/mapstructure/v2"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/datapak-io/readiness-cli/pkg/util/client"
)

// ClusterVersionGVR addresses the OpenShift ClusterVersion resource that
// carries the platform version.
//
//nolint:gochecknoglobals
var ClusterVersionGVR = schema.GroupVersionResource{
	Group:    "config.openshift.io",
	Version:  "v1",
	Resource: "clusterversions",
}

const clusterVersionName = "version"

// desiredRelease is the slice of the ClusterVersion status the platform
// gate reads.
type desiredRelease struct {
	Version string `mapstructure:"version"`
}

// DetectPlatform reads the OpenShift platform version from the ClusterVersion
// resource. Returns an error when the resource is absent or its version
// string cannot be parsed.
func DetectPlatform(ctx context.Context, c *client.Client) (*semver.Version, error) {
	cv, err := c.GetUnstructured(ctx, ClusterVersionGVR, "", clusterVersionName)
	if err != nil {
		return nil, fmt.Errorf("reading ClusterVersion: %w", err)
	}
	if cv == nil {
		return nil, fmt.Errorf("ClusterVersion %q not found", clusterVersionName)
	}

	raw, found, err := unstructured.NestedMap(cv.Object, "status", "desired")
	if err != nil {
		return nil, fmt.Errorf("reading .status.desired: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("ClusterVersion %q has no .status.desired", clusterVersionName)
	}

	var desired desiredRelease
	if err := mapstructure.Decode(raw, &desired); err != nil {
		return nil, fmt.Errorf("decoding .status.desired: %w", err)
	}

	parsed, err := semver.ParseTolerant(strings.TrimPrefix(desired.Version, "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing platform version %q: %w", desired.Version, err)
	}

	return &parsed, nil
}
