package storage_test

import (
	"testing"

	"k8s.io/apimachinery/pkg/runtime"

	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
	"github.com/datapak-io/readiness-cli/pkg/readiness/checks/storage"

	. "github.com/onsi/gomega"
)

func TestPortworx_Detect(t *testing.T) {
	ctx := t.Context()

	tests := []struct {
		name     string
		state    clusterState
		expected bool
	}{
		{
			name: "online cluster detected",
			state: clusterState{
				crds:           []runtime.Object{crd("storageclusters.core.libopenstorage.org")},
				dynamicObjects: []runtime.Object{portworxCluster("px-cluster", "Online")},
			},
			expected: true,
		},
		{
			name: "lowercase phase detected",
			state: clusterState{
				crds:           []runtime.Object{crd("storageclusters.core.libopenstorage.org")},
				dynamicObjects: []runtime.Object{portworxCluster("px-cluster", "online")},
			},
			expected: true,
		},
		{
			name: "degraded cluster not detected",
			state: clusterState{
				crds:           []runtime.Object{crd("storageclusters.core.libopenstorage.org")},
				dynamicObjects: []runtime.Object{portworxCluster("px-cluster", "Degraded")},
			},
			expected: false,
		},
		{
			name: "crd without clusters not detected",
			state: clusterState{
				crds: []runtime.Object{crd("storageclusters.core.libopenstorage.org")},
			},
			expected: false,
		},
		{
			name:     "no crd not detected",
			state:    clusterState{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			present, err := storage.NewPortworx().Detect(ctx, tt.state.client())
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(present).To(Equal(tt.expected))
		})
	}
}

func TestPortworx_ValidateHealthy(t *testing.T) {
	g := NewWithT(t)
	ctx := t.Context()

	state := clusterState{
		kubeObjects: []runtime.Object{
			storageClass("portworx-shared-gp3", true),
			storageClass("portworx-db2-rwx-sc", true),
		},
	}

	result := storage.NewPortworx().Validate(ctx, state.client())

	g.Expect(result.Verdict).To(Equal(check.VerdictPass))
}

func TestPortworx_MissingClassWarnsAndChecksOther(t *testing.T) {
	g := NewWithT(t)
	ctx := t.Context()

	// Second class missing expansion: the Warn from the absent first class
	// must not mask the Fail.
	state := clusterState{
		kubeObjects: []runtime.Object{
			storageClass("portworx-db2-rwx-sc", false),
		},
	}

	result := storage.NewPortworx().Validate(ctx, state.client())

	g.Expect(result.Verdict).To(Equal(check.VerdictFail))
	g.Expect(result.Reason).To(ContainSubstring("portworx-shared-gp3 not found"))
	g.Expect(result.Reason).To(ContainSubstring("portworx-db2-rwx-sc does not allow volume expansion"))
}

func TestPortworx_OneMissingClassWarns(t *testing.T) {
	g := NewWithT(t)
	ctx := t.Context()

	state := clusterState{
		kubeObjects: []runtime.Object{
			storageClass("portworx-shared-gp3", true),
		},
	}

	result := storage.NewPortworx().Validate(ctx, state.client())

	g.Expect(result.Verdict).To(Equal(check.VerdictWarn))
	g.Expect(result.Reason).To(ContainSubstring("portworx-db2-rwx-sc not found"))
}
