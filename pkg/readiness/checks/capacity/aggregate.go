package capacity

import (
	"math"

	log "github.com/sirupsen/logrus"

	corev1 "k8s.io/api/core/v1"

	"github.com/datapak-io/readiness-cli/pkg/constants"
)

// Role classifies a node for capacity purposes.
type Role string

const (
	RoleWorker Role = "worker"
	RoleMaster Role = "master"
)

// NodeResourceSample is one node's contribution to the capacity picture:
// allocatable minus requested, in milli-cores and decimal megabytes.
type NodeResourceSample struct {
	Name                string
	Architecture        string
	Role                Role
	AllocatableCPUMilli int64
	AllocatableMemoryMB float64
	RequestedCPUMilli   int64
	RequestedMemoryMB   float64

	// UnitUnsupported records that at least one quantity on this node
	// could not be normalized. The unreadable quantity contributes zero
	// but the flag keeps the report honest about it.
	UnitUnsupported bool
}

// ClusterCapacity is the summed unrequested capacity of the supported
// architecture, plus the node role counts the profiles gate on.
type ClusterCapacity struct {
	AvailableVCPU     int64
	AvailableMemoryGB int64
	WorkerCount       int
	MasterCount       int

	// UnitUnsupported is set when any retained sample carried an
	// unreadable quantity.
	UnitUnsupported bool
}

// BuildSamples derives one sample per node from the node list and the pods
// scheduled on them. Role classification picks between two strategies: when
// any node carries the architecture label, masters are identified by the
// master role label; on older clusters without the label, a NoSchedule
// taint marks a master.
func BuildSamples(nodes []corev1.Node, pods []corev1.Pod) []NodeResourceSample {
	labelAware := false

	for i := range nodes {
		if _, ok := nodes[i].Labels[constants.ArchLabel]; ok {
			labelAware = true

			break
		}
	}

	requestedCPU := make(map[string]int64, len(nodes))
	requestedMem := make(map[string]float64, len(nodes))
	unreadable := make(map[string]bool, len(nodes))

	for i := range pods {
		pod := &pods[i]
		if pod.Spec.NodeName == "" {
			continue
		}

		if pod.Status.Phase == corev1.PodSucceeded || pod.Status.Phase == corev1.PodFailed {
			continue
		}

		for _, container := range pod.Spec.Containers {
			if cpu, ok := container.Resources.Requests[corev1.ResourceCPU]; ok {
				milli, err := NormalizeCPUMilli(cpu.String())
				if err != nil {
					unreadable[pod.Spec.NodeName] = true
				} else {
					requestedCPU[pod.Spec.NodeName] += milli
				}
			}

			if mem, ok := container.Resources.Requests[corev1.ResourceMemory]; ok {
				mb, err := NormalizeMB(mem.String())
				if err != nil {
					unreadable[pod.Spec.NodeName] = true
				} else {
					requestedMem[pod.Spec.NodeName] += mb
				}
			}
		}
	}

	samples := make([]NodeResourceSample, 0, len(nodes))

	for i := range nodes {
		node := &nodes[i]

		sample := NodeResourceSample{
			Name:              node.Name,
			Architecture:      node.Labels[constants.ArchLabel],
			Role:              classifyRole(node, labelAware),
			RequestedCPUMilli: requestedCPU[node.Name],
			RequestedMemoryMB: requestedMem[node.Name],
			UnitUnsupported:   unreadable[node.Name],
		}

		if cpu, ok := node.Status.Allocatable[corev1.ResourceCPU]; ok {
			milli, err := NormalizeCPUMilli(cpu.String())
			if err != nil {
				sample.UnitUnsupported = true
			} else {
				sample.AllocatableCPUMilli = milli
			}
		}

		if mem, ok := node.Status.Allocatable[corev1.ResourceMemory]; ok {
			mb, err := NormalizeMB(mem.String())
			if err != nil {
				sample.UnitUnsupported = true
			} else {
				sample.AllocatableMemoryMB = mb
			}
		}

		samples = append(samples, sample)
	}

	return samples
}

func classifyRole(node *corev1.Node, labelAware bool) Role {
	if labelAware {
		if _, ok := node.Labels[constants.MasterNodeLabel]; ok {
			return RoleMaster
		}

		return RoleWorker
	}

	for _, taint := range node.Spec.Taints {
		if taint.Effect == corev1.TaintEffectNoSchedule {
			return RoleMaster
		}
	}

	return RoleWorker
}

// Aggregate sums unrequested capacity across samples of the supported
// architecture. Foreign-architecture samples are logged and excluded, not
// counted as zero capacity. Negative unrequested values from over-committed
// nodes propagate into the sums unclamped. The result is independent of the
// sample order.
func Aggregate(samples []NodeResourceSample) ClusterCapacity {
	var capacity ClusterCapacity

	var totalCPUMilli int64

	var totalMemoryMB float64

	for _, sample := range samples {
		if sample.Architecture != "" && sample.Architecture != constants.ArchitectureAMD64 {
			log.Debugf("excluding node %s: unsupported architecture %s", sample.Name, sample.Architecture)

			continue
		}

		totalCPUMilli += sample.AllocatableCPUMilli - sample.RequestedCPUMilli
		totalMemoryMB += sample.AllocatableMemoryMB - sample.RequestedMemoryMB

		if sample.UnitUnsupported {
			capacity.UnitUnsupported = true
		}

		switch sample.Role {
		case RoleMaster:
			capacity.MasterCount++
		case RoleWorker:
			capacity.WorkerCount++
		}
	}

	capacity.AvailableVCPU = int64(math.Round(float64(totalCPUMilli) / 1000))
	capacity.AvailableMemoryGB = int64(math.Round(totalMemoryMB / 1024))

	return capacity
}
