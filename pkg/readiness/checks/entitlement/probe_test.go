package entitlement_test

import (
	"context"
	"testing"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	kubefake "k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
	"github.com/datapak-io/readiness-cli/pkg/readiness/checks/entitlement"
	"github.com/datapak-io/readiness-cli/pkg/util/client"

	. "github.com/onsi/gomega"
)

func probePod(phase corev1.PodPhase, containerState corev1.ContainerState) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      entitlement.JobName + "-x7f2p",
			Namespace: "default",
			Labels: map[string]string{
				"job-name": entitlement.JobName,
			},
		},
		Status: corev1.PodStatus{
			Phase: phase,
			ContainerStatuses: []corev1.ContainerStatus{
				{Name: "entitlement-check", State: containerState},
			},
		},
	}
}

func completedPod() *corev1.Pod {
	return probePod(corev1.PodSucceeded, corev1.ContainerState{
		Terminated: &corev1.ContainerStateTerminated{Reason: "Completed"},
	})
}

func pullFailedPod() *corev1.Pod {
	return probePod(corev1.PodPending, corev1.ContainerState{
		Waiting: &corev1.ContainerStateWaiting{Reason: "ImagePullBackOff"},
	})
}

// newFixture builds a fake cluster where the job controller is simulated:
// creating the probe job materializes the given pod.
func newFixture(pods ...*corev1.Pod) (*kubefake.Clientset, *client.Client) {
	clientset := kubefake.NewSimpleClientset()

	clientset.PrependReactor("create", "jobs", func(k8stesting.Action) (bool, runtime.Object, error) {
		for _, pod := range pods {
			_ = clientset.Tracker().Add(pod)
		}

		return false, nil, nil
	})

	return clientset, client.NewForTesting(client.TestClientConfig{Kube: clientset})
}

func staticLogs(logs string) entitlement.ProbeOption {
	return entitlement.WithLogReader(func(context.Context, *client.Client, string, string) (string, error) {
		return logs, nil
	})
}

func expectCleanedUp(g Gomega, clientset *kubefake.Clientset) {
	_, err := clientset.BatchV1().Jobs("default").Get(context.Background(), entitlement.JobName, metav1.GetOptions{})
	g.Expect(apierrors.IsNotFound(err)).To(BeTrue())

	pods, err := clientset.CoreV1().Pods("default").List(context.Background(), metav1.ListOptions{
		LabelSelector: "job-name=" + entitlement.JobName,
	})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(pods.Items).To(BeEmpty())
}

func TestProbe_Succeeded(t *testing.T) {
	g := NewWithT(t)
	ctx := t.Context()

	clientset, c := newFixture(completedPod())
	probe := entitlement.NewProbe(staticLogs("entitlement-ok\n"))

	state, err := probe.Run(ctx, c)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(state).To(Equal(entitlement.StateSucceeded))
	expectCleanedUp(g, clientset)
}

func TestProbe_WrongTokenIsOtherFailure(t *testing.T) {
	g := NewWithT(t)
	ctx := t.Context()

	clientset, c := newFixture(completedPod())
	probe := entitlement.NewProbe(staticLogs("unauthorized: authentication required"))

	state, err := probe.Run(ctx, c)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(state).To(Equal(entitlement.StateOtherFailure))
	expectCleanedUp(g, clientset)
}

func TestProbe_ImagePullFailedIsTerminalImmediately(t *testing.T) {
	g := NewWithT(t)
	ctx := t.Context()

	clientset, c := newFixture(pullFailedPod())

	// An hour-long interval proves no poll delay is consumed before the
	// pull failure is reported.
	probe := entitlement.NewProbe(entitlement.WithInterval(time.Hour))

	state, err := probe.Run(ctx, c)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(state).To(Equal(entitlement.StateImagePullFailed))
	expectCleanedUp(g, clientset)
}

func TestProbe_FailedPodIsOtherFailure(t *testing.T) {
	g := NewWithT(t)
	ctx := t.Context()

	clientset, c := newFixture(probePod(corev1.PodFailed, corev1.ContainerState{
		Terminated: &corev1.ContainerStateTerminated{Reason: "Error"},
	}))
	probe := entitlement.NewProbe(entitlement.WithInterval(time.Hour))

	state, err := probe.Run(ctx, c)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(state).To(Equal(entitlement.StateOtherFailure))
	expectCleanedUp(g, clientset)
}

func TestProbe_NoPodIsNotFoundAfterGrace(t *testing.T) {
	g := NewWithT(t)
	ctx := t.Context()

	clientset, c := newFixture()
	probe := entitlement.NewProbe(entitlement.WithInterval(time.Millisecond))

	state, err := probe.Run(ctx, c)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(state).To(Equal(entitlement.StateNotFound))
	expectCleanedUp(g, clientset)
}

func TestProbe_PodMaterializingLateStillSucceeds(t *testing.T) {
	g := NewWithT(t)
	ctx := t.Context()

	clientset, c := newFixture(completedPod())

	// The first pod listings come back empty, as they would on a live
	// cluster before the job controller has reconciled the job.
	emptyListings := 3
	clientset.PrependReactor("list", "pods", func(k8stesting.Action) (bool, runtime.Object, error) {
		if emptyListings > 0 {
			emptyListings--

			return true, &corev1.PodList{}, nil
		}

		return false, nil, nil
	})

	probe := entitlement.NewProbe(
		entitlement.WithInterval(time.Millisecond),
		staticLogs("entitlement-ok"),
	)

	state, err := probe.Run(ctx, c)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(state).To(Equal(entitlement.StateSucceeded))
	expectCleanedUp(g, clientset)
}

func TestProbe_ExpiredContextStillCleansUp(t *testing.T) {
	g := NewWithT(t)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	clientset, c := newFixture(probePod(corev1.PodRunning, corev1.ContainerState{
		Running: &corev1.ContainerStateRunning{},
	}))
	probe := entitlement.NewProbe(entitlement.WithInterval(5 * time.Millisecond))

	state, err := probe.Run(ctx, c)

	g.Expect(err).To(MatchError(context.DeadlineExceeded))
	g.Expect(state).To(Equal(entitlement.StateUnknown))
	expectCleanedUp(g, clientset)
}

func TestProbe_CeilingExhaustion(t *testing.T) {
	g := NewWithT(t)
	ctx := t.Context()

	clientset, c := newFixture(probePod(corev1.PodRunning, corev1.ContainerState{
		Running: &corev1.ContainerStateRunning{},
	}))
	probe := entitlement.NewProbe(
		entitlement.WithAttempts(3),
		entitlement.WithInterval(time.Millisecond),
	)

	state, err := probe.Run(ctx, c)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(state).To(Equal(entitlement.StateUnknown))
	expectCleanedUp(g, clientset)
}

func TestProbe_StaleJobIsReplaced(t *testing.T) {
	g := NewWithT(t)
	ctx := t.Context()

	stale := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      entitlement.JobName,
			Namespace: "default",
		},
	}

	clientset := kubefake.NewSimpleClientset(stale)
	clientset.PrependReactor("create", "jobs", func(k8stesting.Action) (bool, runtime.Object, error) {
		_ = clientset.Tracker().Add(completedPod())

		return false, nil, nil
	})

	c := client.NewForTesting(client.TestClientConfig{Kube: clientset})
	probe := entitlement.NewProbe(staticLogs("entitlement-ok"))

	state, err := probe.Run(ctx, c)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(state).To(Equal(entitlement.StateSucceeded))
	expectCleanedUp(g, clientset)
}

func TestCheck_VerdictMapping(t *testing.T) {
	tests := []struct {
		name            string
		pods            []*corev1.Pod
		logs            string
		expectedVerdict check.Verdict
		expectedMessage string
	}{
		{
			name:            "succeeded with token passes",
			pods:            []*corev1.Pod{completedPod()},
			logs:            "entitlement-ok",
			expectedVerdict: check.VerdictPass,
			expectedMessage: "registry entitlement verified",
		},
		{
			name:            "pull failure fails",
			pods:            []*corev1.Pod{pullFailedPod()},
			expectedVerdict: check.VerdictFail,
			expectedMessage: "image pull failed",
		},
		{
			name:            "missing pod fails",
			pods:            nil,
			expectedVerdict: check.VerdictFail,
			expectedMessage: "probe pod never appeared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			ctx := t.Context()

			_, c := newFixture(tt.pods...)
			probe := entitlement.NewProbe(
				entitlement.WithInterval(time.Millisecond),
				staticLogs(tt.logs),
			)

			result, err := entitlement.NewCheckWithProbe(probe).Run(ctx, &check.Target{Client: c})

			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(result.Verdict).To(Equal(tt.expectedVerdict))
			g.Expect(result.Message).To(ContainSubstring(tt.expectedMessage))
		})
	}
}
