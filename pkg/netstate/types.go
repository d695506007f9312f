// Package netstate is the VPC-reconciler's kernel-facing resource layer: it
// observes live netlink links and mutates them toward a RequiredInformationBase
// using the precondition-then-mutate idiom the teacher uses for SONiC device
// ops, generalized from ConfigDB/Redis writes to netlink calls. pkg/reconcile
// supplies the generic decision table and convergence loop; this package only
// supplies the four concrete resource kinds and their netlink bindings.
package netstate

import "net/netip"

// InterfaceSpec is the desired administrative state of an existing kernel
// interface: it is never created or removed by the reconciler, only
// configured.
type InterfaceSpec struct {
	Mtu int
	Up  bool
}

// VrfSpec is the desired state of an L3VNI VRF device.
type VrfSpec struct {
	TableId uint32
}

// BridgeSpec is the desired state of an L2VNI bridge device, optionally
// enslaved to a VRF (MasterIndex, resolved from an AssociationSpec).
type BridgeSpec struct {
	VlanFiltering bool
	MasterIndex   int
}

// VtepSpec is the desired state of a VXLAN tunnel endpoint device,
// optionally enslaved to a bridge (MasterIndex, resolved from an
// AssociationSpec).
type VtepSpec struct {
	Vni         uint32
	LocalAddr   netip.Addr
	MasterIndex int
}

// AssociationKind names which of the two enslaveable resource kinds an
// AssociationSpec's Child belongs to.
type AssociationKind int

const (
	AssociationBridge AssociationKind = iota
	AssociationVtep
)

// AssociationSpec records that Child (a bridge or VTEP, named by Kind)
// should be enslaved to the kernel link named Controller, once that
// controller is observed. Resolution happens once per convergence pass,
// before the pass reconciles the child's kind, by rewriting the child
// spec's MasterIndex to the controller's observed ifindex.
type AssociationSpec struct {
	Kind       AssociationKind
	Child      string
	Controller string
}

// RequiredInformationBase is the full desired state the VPC-reconciler
// drives the kernel toward: keyed multi-index maps of every resource kind
// plus the associations binding them together.
type RequiredInformationBase struct {
	Interfaces   map[string]InterfaceSpec
	Vrfs         map[string]VrfSpec
	Bridges      map[string]BridgeSpec
	Vteps        map[string]VtepSpec
	Associations []AssociationSpec
}
