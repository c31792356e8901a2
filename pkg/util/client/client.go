package client

import (
	"bytes"
	"context"
	"fmt"
	"io"

	olmclientset "github.com/operator-framework/operator-lifecycle-manager/pkg/api/client/clientset/versioned"

	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	apiextclientset "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// Default client-side throttling settings for the Kubernetes API client.
const (
	DefaultQPS   = 50
	DefaultBurst = 100
)

// Client bundles the API surfaces the readiness checks inspect: the typed
// core client (nodes, pods, storage classes, jobs, logs), a dynamic client
// for custom resources, the apiextensions client for CRD presence probes,
// and the OLM client for installed-operator listings.
type Client struct {
	kube    kubernetes.Interface
	dynamic dynamic.Interface
	apiext  apiextclientset.Interface
	olm     olmclientset.Interface
}

// NewRESTConfig builds a REST config from kubectl-style config flags with
// the given throttling settings.
func NewRESTConfig(flags *genericclioptions.ConfigFlags, qps float32, burst int) (*rest.Config, error) {
	cfg, err := flags.ToRESTConfig()
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig: %w", err)
	}

	cfg.QPS = qps
	cfg.Burst = burst

	return cfg, nil
}

// NewClientWithConfig creates a Client from a REST config.
func NewClientWithConfig(cfg *rest.Config) (*Client, error) {
	kube, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating core client: %w", err)
	}

	dyn, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating dynamic client: %w", err)
	}

	apiext, err := apiextclientset.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating apiextensions client: %w", err)
	}

	olm, err := olmclientset.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating OLM client: %w", err)
	}

	return &Client{
		kube:    kube,
		dynamic: dyn,
		apiext:  apiext,
		olm:     olm,
	}, nil
}

// TestClientConfig holds fake clients for NewForTesting.
type TestClientConfig struct {
	Kube    kubernetes.Interface
	Dynamic dynamic.Interface
	APIExt  apiextclientset.Interface
	OLM     olmclientset.Interface
}

// NewForTesting builds a Client from fake clients. Nil fields stay nil;
// tests only populate the surfaces their check touches.
func NewForTesting(cfg TestClientConfig) *Client {
	return &Client{
		kube:    cfg.Kube,
		dynamic: cfg.Dynamic,
		apiext:  cfg.APIExt,
		olm:     cfg.OLM,
	}
}

func (c *Client) Kube() kubernetes.Interface {
	return c.kube
}

func (c *Client) Dynamic() dynamic.Interface {
	return c.dynamic
}

func (c *Client) OLM() olmclientset.Interface {
	return c.olm
}

// Ping verifies the cluster is reachable with the current credentials. It
// is called before any check runs; failure here is fatal to the whole run.
func (c *Client) Ping() error {
	if _, err := c.kube.Discovery().ServerVersion(); err != nil {
		return fmt.Errorf("cluster not reachable: %w", err)
	}

	return nil
}

// GetUnstructured fetches one object by GVR, in ignore-not-found mode:
// a missing object or an unserved resource type yields (nil, nil) rather
// than an error. Use an empty namespace for cluster-scoped resources.
func (c *Client) GetUnstructured(
	ctx context.Context,
	gvr schema.GroupVersionResource,
	namespace string,
	name string,
) (*unstructured.Unstructured, error) {
	var ri dynamic.ResourceInterface = c.dynamic.Resource(gvr)
	if namespace != "" {
		ri = c.dynamic.Resource(gvr).Namespace(namespace)
	}

	obj, err := ri.Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) || IsResourceTypeNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", gvr.Resource, name, err)
	}

	return obj, nil
}

// ListUnstructured lists objects by GVR in ignore-not-found mode: an
// unserved resource type yields an empty list rather than an error.
func (c *Client) ListUnstructured(
	ctx context.Context,
	gvr schema.GroupVersionResource,
	namespace string,
) (*unstructured.UnstructuredList, error) {
	var ri dynamic.ResourceInterface = c.dynamic.Resource(gvr)
	if namespace != "" {
		ri = c.dynamic.Resource(gvr).Namespace(namespace)
	}

	list, err := ri.List(ctx, metav1.ListOptions{})
	if apierrors.IsNotFound(err) || IsResourceTypeNotFound(err) {
		return &unstructured.UnstructuredList{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", gvr.Resource, err)
	}

	return list, nil
}

// HasCRD reports whether the named CustomResourceDefinition is installed.
func (c *Client) HasCRD(ctx context.Context, name string) (bool, error) {
	_, err := c.apiext.ApiextensionsV1().CustomResourceDefinitions().Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("getting CRD %s: %w", name, err)
	}

	return true, nil
}

// StorageClass fetches a storage class by name, returning (nil, nil) when
// it does not exist.
func (c *Client) StorageClass(ctx context.Context, name string) (*storagev1.StorageClass, error) {
	sc, err := c.kube.StorageV1().StorageClasses().Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting storage class %s: %w", name, err)
	}

	return sc, nil
}

// ListPods lists pods in a namespace with an optional label selector.
func (c *Client) ListPods(ctx context.Context, namespace string, selector string) (*corev1.PodList, error) {
	pods, err := c.kube.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector,
	})
	if err != nil {
		return nil, fmt.Errorf("listing pods in %s: %w", namespace, err)
	}

	return pods, nil
}

// PodLogs fetches the full log output of a named pod.
func (c *Client) PodLogs(ctx context.Context, namespace string, name string) (string, error) {
	stream, err := c.kube.CoreV1().Pods(namespace).GetLogs(name, &corev1.PodLogOptions{}).Stream(ctx)
	if err != nil {
		return "", fmt.Errorf("streaming logs for pod %s/%s: %w", namespace, name, err)
	}
	defer func() {
		_ = stream.Close()
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, stream); err != nil {
		return "", fmt.Errorf("reading logs for pod %s/%s: %w", namespace, name, err)
	}

	return buf.String(), nil
}
