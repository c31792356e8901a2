package storage_test

import (
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apiextfake "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset/fake"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	kubefake "k8s.io/client-go/kubernetes/fake"

	"github.com/datapak-io/readiness-cli/pkg/util/client"
)

// clusterState assembles the fake API surfaces a storage test needs.
type clusterState struct {
	kubeObjects    []runtime.Object
	crds           []runtime.Object
	dynamicObjects []runtime.Object
}

//nolint:gochecknoglobals
var testListKinds = map[schema.GroupVersionResource]string{
	{Group: "core.libopenstorage.org", Version: "v1", Resource: "storageclusters"}: "StorageClusterList",
	{Group: "config.openshift.io", Version: "v1", Resource: "clusterversions"}:     "ClusterVersionList",
}

func (s clusterState) client() *client.Client {
	scheme := runtime.NewScheme()
	_ = metav1.AddMetaToScheme(scheme)

	return client.NewForTesting(client.TestClientConfig{
		Kube:    kubefake.NewSimpleClientset(s.kubeObjects...),
		APIExt:  apiextfake.NewSimpleClientset(s.crds...),
		Dynamic: dynamicfake.NewSimpleDynamicClientWithCustomListKinds(scheme, testListKinds, s.dynamicObjects...),
	})
}

func storageClass(name string, expansion bool) *storagev1.StorageClass {
	return &storagev1.StorageClass{
		ObjectMeta:           metav1.ObjectMeta{Name: name},
		AllowVolumeExpansion: &expansion,
	}
}

func crd(name string) *apiextensionsv1.CustomResourceDefinition {
	return &apiextensionsv1.CustomResourceDefinition{
		ObjectMeta: metav1.ObjectMeta{Name: name},
	}
}

func pod(namespace string, name string, phase corev1.PodPhase) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Status:     corev1.PodStatus{Phase: phase},
	}
}

func portworxCluster(name string, phase string) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{}
	obj.SetAPIVersion("core.libopenstorage.org/v1")
	obj.SetKind("StorageCluster")
	obj.SetName(name)
	obj.SetNamespace("kube-system")

	_ = unstructured.SetNestedField(obj.Object, phase, "status", "phase")

	return obj
}

func clusterVersion(ver string) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{}
	obj.SetAPIVersion("config.openshift.io/v1")
	obj.SetKind("ClusterVersion")
	obj.SetName("version")

	_ = unstructured.SetNestedField(obj.Object, ver, "status", "desired", "version")

	return obj
}
