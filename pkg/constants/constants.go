package constants

// Node architecture the product supports. Capacity aggregation and the
// entitlement workload are both pinned to it.
const (
	ArchitectureAMD64 = "amd64"
	ArchLabel         = "kubernetes.io/arch"
)

// MasterNodeLabel marks control-plane nodes on clusters that carry role
// labels; older clusters are classified by NoSchedule taints instead.
const MasterNodeLabel = "node-role.kubernetes.io/master"

// Namespaces the checks inspect or create resources in.
const (
	// EntitlementNamespace is where the disposable entitlement verification
	// job runs.
	EntitlementNamespace = "default"

	// ODFNamespace hosts the OpenShift Data Foundation operator pods.
	ODFNamespace = "openshift-storage"
)

// Verdict labels as rendered in reports.
const (
	VerdictLabelPass = "PASS"
	VerdictLabelWarn = "WARN"
	VerdictLabelFail = "FAIL"
	VerdictLabelSkip = "SKIP"
)
