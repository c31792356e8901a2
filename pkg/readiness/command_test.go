package readiness_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	operatorsv1alpha1 "github.com/operator-framework/api/pkg/operators/v1alpha1"
	olmfake "github.com/operator-framework/operator-lifecycle-manager/pkg/api/client/clientset/versioned/fake"

	corev1 "k8s.io/api/core/v1"
	apiextfake "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset/fake"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/cli-runtime/pkg/genericiooptions"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	kubefake "k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/datapak-io/readiness-cli/pkg/readiness"
	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
	"github.com/datapak-io/readiness-cli/pkg/util/client"

	. "github.com/onsi/gomega"
)

func worker(name string) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: map[string]string{"kubernetes.io/arch": "amd64"},
		},
		Status: corev1.NodeStatus{
			Allocatable: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("16"),
				corev1.ResourceMemory: resource.MustParse("64Gi"),
			},
		},
	}
}

func testClusterVersion(ver string) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{}
	obj.SetAPIVersion("config.openshift.io/v1")
	obj.SetKind("ClusterVersion")
	obj.SetName("version")

	_ = unstructured.SetNestedField(obj.Object, ver, "status", "desired", "version")

	return obj
}

func rejectedProbePod() *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "readiness-entitlement-check-x7f2p",
			Namespace: "default",
			Labels:    map[string]string{"job-name": "readiness-entitlement-check"},
		},
		Status: corev1.PodStatus{
			Phase: corev1.PodPending,
			ContainerStatuses: []corev1.ContainerStatus{
				{
					Name: "entitlement-check",
					State: corev1.ContainerState{
						Waiting: &corev1.ContainerStateWaiting{Reason: "ImagePullBackOff"},
					},
				},
			},
		},
	}
}

func succeededCSV(name string) *operatorsv1alpha1.ClusterServiceVersion {
	return &operatorsv1alpha1.ClusterServiceVersion{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "openshift-operators"},
		Status: operatorsv1alpha1.ClusterServiceVersionStatus{
			Phase: operatorsv1alpha1.CSVPhaseSucceeded,
		},
	}
}

func TestCommand_RunRendersFullReport(t *testing.T) {
	g := NewWithT(t)
	ctx := t.Context()

	kubeObjects := make([]runtime.Object, 0, 12)
	for i := range 12 {
		kubeObjects = append(kubeObjects, worker(fmt.Sprintf("worker-%d", i)))
	}

	scheme := runtime.NewScheme()
	_ = metav1.AddMetaToScheme(scheme)

	listKinds := map[schema.GroupVersionResource]string{
		{Group: "config.openshift.io", Version: "v1", Resource: "clusterversions"}: "ClusterVersionList",
	}

	var out, errOut bytes.Buffer

	streams := genericiooptions.IOStreams{
		In:     &bytes.Buffer{},
		Out:    &out,
		ErrOut: &errOut,
	}

	// The simulated job controller materializes a probe pod stuck on an
	// image pull, so the entitlement check fails without polling.
	kubeFake := kubefake.NewSimpleClientset(kubeObjects...)
	kubeFake.PrependReactor("create", "jobs", func(k8stesting.Action) (bool, runtime.Object, error) {
		_ = kubeFake.Tracker().Add(rejectedProbePod())

		return false, nil, nil
	})

	c := readiness.NewCommand(streams, genericclioptions.NewConfigFlags(true))
	c.Client = client.NewForTesting(client.TestClientConfig{
		Kube:    kubeFake,
		Dynamic: dynamicfake.NewSimpleDynamicClientWithCustomListKinds(scheme, listKinds, testClusterVersion("4.14.3")),
		APIExt:  apiextfake.NewSimpleClientset(),
		OLM: olmfake.NewSimpleClientset(
			succeededCSV("ibm-common-service-operator.v4.6.2"),
			succeededCSV("ibm-licensing-operator.v4.2.0"),
		),
	})
	c.SkipStorage = true
	c.OutputFormat = readiness.OutputFormatJSON

	g.Expect(c.Validate()).To(Succeed())

	err := c.Run(ctx)
	g.Expect(err).To(MatchError(readiness.ErrChecksFailed))

	var report check.Report
	g.Expect(json.Unmarshal(out.Bytes(), &report)).To(Succeed())
	g.Expect(report.Checks).To(HaveLen(6))

	byID := make(map[string]check.Result, len(report.Checks))
	for _, result := range report.Checks {
		byID[result.ID] = result
	}

	g.Expect(byID["platform.version"].Verdict).To(Equal(check.VerdictPass))
	g.Expect(byID["entitlement.credentials"].Verdict).To(Equal(check.VerdictFail))
	g.Expect(byID["storage.backends"].Verdict).To(Equal(check.VerdictSkip))
	g.Expect(byID["capacity.compute"].Verdict).To(Equal(check.VerdictPass))
	g.Expect(byID["operators.common-services"].Verdict).To(Equal(check.VerdictPass))
	g.Expect(byID["operators.license-service"].Verdict).To(Equal(check.VerdictPass))
	g.Expect(report.Overall).To(Equal(check.VerdictFail))
}

func TestOptions_Validate(t *testing.T) {
	g := NewWithT(t)

	streams := genericiooptions.IOStreams{
		In:     &bytes.Buffer{},
		Out:    &bytes.Buffer{},
		ErrOut: &bytes.Buffer{},
	}

	opts := readiness.NewOptions(streams, genericclioptions.NewConfigFlags(true))
	g.Expect(opts.Validate()).To(Succeed())

	opts.OutputFormat = "xml"
	g.Expect(opts.Validate()).To(HaveOccurred())

	opts.OutputFormat = readiness.OutputFormatTable
	opts.Timeout = 0
	g.Expect(opts.Validate()).To(HaveOccurred())
}
