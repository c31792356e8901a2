package entitlement

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/datapak-io/readiness-cli/pkg/constants"
	"github.com/datapak-io/readiness-cli/pkg/util/client"
)

const (
	// JobName is the fixed name of the disposable verification workload.
	// A stale same-named job from a prior aborted run is removed before a
	// fresh one is created.
	JobName = "readiness-entitlement-check"

	// successToken is the exact output the probe container must emit.
	successToken = "entitlement-ok"

	// probeImage lives in the entitled registry; pulling it exercises the
	// credential under test.
	probeImage = "cp.icr.io/cp/cpd/olm-utils-v2:latest"

	defaultAttempts = 25
	defaultInterval = 5 * time.Second

	// podGraceAttempts is how many poll attempts the job controller gets to
	// materialize the child pod before an empty listing is treated as the
	// pod never appearing. The first listing lands microseconds after the
	// job create returns, well before any controller has reconciled it.
	podGraceAttempts = 5

	podSelector = "job-name=" + JobName
)

// State is the terminal outcome of one probe run.
type State int

const (
	StateUnknown State = iota
	StateSucceeded
	StateImagePullFailed
	StateOtherFailure
	StateNotFound
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "Unknown"
	case StateSucceeded:
		return "Succeeded"
	case StateImagePullFailed:
		return "ImagePullFailed"
	case StateOtherFailure:
		return "OtherFailure"
	case StateNotFound:
		return "NotFound"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Probe verifies registry credentials by running a disposable job whose
// image pull is gated on the entitlement under test, then polling the
// child pod to a terminal state under a bounded attempt budget.
type Probe struct {
	namespace string
	image     string
	attempts  int
	interval  time.Duration

	// readLogs is swappable so tests can supply pod output; the fake
	// clientset does not serve real log content.
	readLogs func(ctx context.Context, c *client.Client, namespace string, name string) (string, error)
}

// ProbeOption configures a Probe.
type ProbeOption func(*Probe)

// WithInterval overrides the inter-attempt delay.
func WithInterval(d time.Duration) ProbeOption {
	return func(p *Probe) {
		p.interval = d
	}
}

// WithAttempts overrides the polling attempt ceiling.
func WithAttempts(n int) ProbeOption {
	return func(p *Probe) {
		p.attempts = n
	}
}

// WithLogReader overrides how the probe fetches pod output.
func WithLogReader(f func(ctx context.Context, c *client.Client, namespace string, name string) (string, error)) ProbeOption {
	return func(p *Probe) {
		p.readLogs = f
	}
}

// NewProbe creates a probe with the production budget: 25 attempts, 5
// seconds apart.
func NewProbe(opts ...ProbeOption) *Probe {
	p := &Probe{
		namespace: constants.EntitlementNamespace,
		image:     probeImage,
		attempts:  defaultAttempts,
		interval:  defaultInterval,
		readLogs: func(ctx context.Context, c *client.Client, namespace string, name string) (string, error) {
			return c.PodLogs(ctx, namespace, name)
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes the probe to a terminal state. The workload is deleted on
// every exit path, including early failures and ceiling exhaustion. An
// error return means the probe infrastructure itself failed; verification
// outcomes are expressed through the State.
func (p *Probe) Run(ctx context.Context, c *client.Client) (State, error) {
	p.cleanup(ctx, c)

	_, err := c.Kube().BatchV1().Jobs(p.namespace).Create(ctx, p.jobManifest(), metav1.CreateOptions{})
	if err != nil {
		return StateUnknown, fmt.Errorf("creating entitlement job: %w", err)
	}

	// Cleanup must still reach the API server when the run context has
	// already expired mid-poll.
	defer p.cleanup(context.WithoutCancel(ctx), c)

	return p.poll(ctx, c)
}

func (p *Probe) poll(ctx context.Context, c *client.Client) (State, error) {
	for attempt := 1; attempt <= p.attempts; attempt++ {
		pods, err := c.ListPods(ctx, p.namespace, podSelector)

		switch {
		case err != nil && client.IsUnrecoverableError(err):
			return StateUnknown, fmt.Errorf("listing probe pods: %w", err)

		case err != nil:
			// Transient API error; the attempt budget absorbs it.
			log.Debugf("entitlement probe attempt %d/%d: %v", attempt, p.attempts, err)

		case len(pods.Items) == 0:
			if attempt >= podGraceAttempts {
				// The controller had the whole grace window and no pod
				// materialized; fail without consuming the rest of the
				// polling budget.
				return StateNotFound, nil
			}

		default:
			state, terminal, err := p.interpret(ctx, c, &pods.Items[0])
			if err != nil {
				return StateUnknown, err
			}

			if terminal {
				return state, nil
			}
		}

		if attempt < p.attempts {
			log.Debugf("entitlement probe attempt %d/%d: pod not terminal, retrying in %s",
				attempt, p.attempts, p.interval)

			if err := sleep(ctx, p.interval); err != nil {
				return StateUnknown, err
			}
		}
	}

	return StateUnknown, nil
}

// interpret maps the probe pod's current status to a terminal state, or
// reports that polling should continue.
func (p *Probe) interpret(ctx context.Context, c *client.Client, pod *corev1.Pod) (State, bool, error) {
	switch pod.Status.Phase {
	case corev1.PodSucceeded:
		if !containerCompleted(pod) {
			return StateUnknown, false, nil
		}

		logs, err := p.readLogs(ctx, c, p.namespace, pod.Name)
		if err != nil {
			return StateUnknown, false, fmt.Errorf("reading probe output: %w", err)
		}

		if strings.TrimSpace(logs) == successToken {
			return StateSucceeded, true, nil
		}

		return StateOtherFailure, true, nil

	case corev1.PodFailed:
		return StateOtherFailure, true, nil

	case corev1.PodPending:
		// A pull error is treated as terminal immediately rather than
		// waiting out the budget on a credential that was rejected.
		if imagePullFailed(pod) {
			return StateImagePullFailed, true, nil
		}

		return StateUnknown, false, nil

	default:
		return StateUnknown, false, nil
	}
}

func containerCompleted(pod *corev1.Pod) bool {
	for _, status := range pod.Status.ContainerStatuses {
		terminated := status.State.Terminated
		if terminated != nil && terminated.Reason == "Completed" {
			return true
		}
	}

	return false
}

func imagePullFailed(pod *corev1.Pod) bool {
	for _, status := range pod.Status.ContainerStatuses {
		waiting := status.State.Waiting
		if waiting == nil {
			continue
		}

		if waiting.Reason == "ErrImagePull" || waiting.Reason == "ImagePullBackOff" {
			return true
		}
	}

	return false
}

// cleanup removes the job and any child pods, tolerating absence. It runs
// both before creation (stale leftovers from a prior aborted run) and on
// every exit path.
func (p *Probe) cleanup(ctx context.Context, c *client.Client) {
	policy := metav1.DeletePropagationBackground

	err := c.Kube().BatchV1().Jobs(p.namespace).Delete(ctx, JobName, metav1.DeleteOptions{
		PropagationPolicy: &policy,
	})
	if err != nil && !apierrors.IsNotFound(err) {
		log.Debugf("deleting entitlement job: %v", err)
	}

	pods, err := c.ListPods(ctx, p.namespace, podSelector)
	if err != nil {
		log.Debugf("listing entitlement pods for cleanup: %v", err)

		return
	}

	for i := range pods.Items {
		err := c.Kube().CoreV1().Pods(p.namespace).Delete(ctx, pods.Items[i].Name, metav1.DeleteOptions{})
		if err != nil && !apierrors.IsNotFound(err) {
			log.Debugf("deleting entitlement pod %s: %v", pods.Items[i].Name, err)
		}
	}
}

func (p *Probe) jobManifest() *batchv1.Job {
	backoffLimit := int32(0)

	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      JobName,
			Namespace: p.namespace,
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: &backoffLimit,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{
						"job-name": JobName,
					},
				},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					NodeSelector: map[string]string{
						constants.ArchLabel: constants.ArchitectureAMD64,
					},
					Containers: []corev1.Container{
						{
							Name:    "entitlement-check",
							Image:   p.image,
							Command: []string{"/bin/sh", "-c", "echo " + successToken},
						},
					},
				},
			},
		},
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
