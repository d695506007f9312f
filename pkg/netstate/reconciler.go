package netstate

import (
	"context"

	"github.com/fabricgw/gwdataplane/pkg/reconcile"
)

// Reconciler drives a RequiredInformationBase's four resource kinds toward
// the live kernel, in controller-before-child order (VRF, then bridge, then
// VTEP, then plain interfaces) so each pass's association resolution sees
// freshly-created controllers before their children are reconciled.
type Reconciler struct {
	h      linkHandle
	vrf    *vrfDriver
	bridge *bridgeDriver
	vtep   *vtepDriver
	iface  *interfaceDriver
}

// New builds a Reconciler against h, normally a kernelHandle for production
// use or a fake for tests.
func New(h linkHandle) *Reconciler {
	return &Reconciler{
		h:      h,
		vrf:    newVrfDriver(h),
		bridge: newBridgeDriver(h),
		vtep:   newVtepDriver(h),
		iface:  newInterfaceDriver(h),
	}
}

// NewKernel builds a Reconciler against the host's real network namespace.
func NewKernel() *Reconciler { return New(kernelHandle{}) }

func resolveBridgeAssociations(specs map[string]BridgeSpec, assocs []AssociationSpec, controllerIndex map[string]int) map[string]BridgeSpec {
	out := make(map[string]BridgeSpec, len(specs))
	for name, spec := range specs {
		out[name] = spec
	}
	for _, a := range assocs {
		if a.Kind != AssociationBridge {
			continue
		}
		spec, ok := out[a.Child]
		if !ok {
			continue
		}
		spec.MasterIndex = controllerIndex[a.Controller]
		out[a.Child] = spec
	}
	return out
}

func resolveVtepAssociations(specs map[string]VtepSpec, assocs []AssociationSpec, controllerIndex map[string]int) map[string]VtepSpec {
	out := make(map[string]VtepSpec, len(specs))
	for name, spec := range specs {
		out[name] = spec
	}
	for _, a := range assocs {
		if a.Kind != AssociationVtep {
			continue
		}
		spec, ok := out[a.Child]
		if !ok {
			continue
		}
		spec.MasterIndex = controllerIndex[a.Controller]
		out[a.Child] = spec
	}
	return out
}

// Converge drives rib toward the live kernel, bounded by budget passes. It
// returns the number of passes run and whether every resource kind reached
// a fixed point.
func (r *Reconciler) Converge(ctx context.Context, rib RequiredInformationBase, budget int) (int, bool, error) {
	for i := 1; i <= budget; i++ {
		quiescent := true

		vrfDone, err := reconcile.Pass[VrfSpec, VrfObservation](ctx, r.vrf, rib.Vrfs)
		if err != nil {
			return i, false, err
		}
		quiescent = quiescent && vrfDone

		vrfObs, err := r.vrf.Observe(ctx)
		if err != nil {
			return i, false, err
		}
		vrfIndex := make(map[string]int, len(vrfObs))
		for _, o := range vrfObs {
			vrfIndex[o.Name()] = o.Ifindex()
		}

		bridgeReq := resolveBridgeAssociations(rib.Bridges, rib.Associations, vrfIndex)
		bridgeDone, err := reconcile.Pass[BridgeSpec, BridgeObservation](ctx, r.bridge, bridgeReq)
		if err != nil {
			return i, false, err
		}
		quiescent = quiescent && bridgeDone

		bridgeObs, err := r.bridge.Observe(ctx)
		if err != nil {
			return i, false, err
		}
		bridgeIndex := make(map[string]int, len(bridgeObs))
		for _, o := range bridgeObs {
			bridgeIndex[o.Name()] = o.Ifindex()
		}

		vtepReq := resolveVtepAssociations(rib.Vteps, rib.Associations, bridgeIndex)
		vtepDone, err := reconcile.Pass[VtepSpec, VtepObservation](ctx, r.vtep, vtepReq)
		if err != nil {
			return i, false, err
		}
		quiescent = quiescent && vtepDone

		ifaceDone, err := reconcile.Pass[InterfaceSpec, InterfaceObservation](ctx, r.iface, rib.Interfaces)
		if err != nil {
			return i, false, err
		}
		quiescent = quiescent && ifaceDone

		if quiescent {
			return i, true, nil
		}
	}
	return budget, false, nil
}
