package rib

import "github.com/fabricgw/gwdataplane/pkg/wire"

// RouterVrfConfig is the desired configuration of one VRF: its routing
// table, a human description, and an optional VXLAN VNI binding it to an
// L3VPN overlay.
type RouterVrfConfig struct {
	Name        string
	Description string
	TableId     wire.RouteTableId
	Vni         *wire.Vni
}

// VrfOp is one step of a VRF reconfiguration plan.
type VrfOp struct {
	UnsetVni *RouterVrfConfig // detach the current VNI before anything else touches the table
	Delete   *RouterVrfConfig
	Change   *vrfChange
	Add      *RouterVrfConfig
	SetVni   *RouterVrfConfig // attach the new VNI after every unset has run
}

type vrfChange struct {
	Old, New RouterVrfConfig
}

// VrfPlan is the four disjoint change lists a VRF reconciliation pass
// produces, joined on VRF table id: Keep (unchanged), Delete (removed),
// Change (same id, different fields), Add (new). VNI rebinding within
// Change is split so every unset runs before any set, never interleaved.
type VrfPlan struct {
	Keep   []RouterVrfConfig
	Delete []RouterVrfConfig
	Change []vrfChange
	Add    []RouterVrfConfig

	vniUnsets []RouterVrfConfig
	vniSets   []RouterVrfConfig
}

// PlanVrfChanges diffs current against desired, joining on TableId, and
// never emits a delete for VRF 0 — it may only be detached from, not
// removed.
func PlanVrfChanges(current, desired []RouterVrfConfig) VrfPlan {
	var plan VrfPlan

	byId := make(map[wire.RouteTableId]RouterVrfConfig, len(current))
	for _, c := range current {
		byId[c.TableId] = c
	}
	seen := make(map[wire.RouteTableId]bool, len(desired))

	for _, want := range desired {
		seen[want.TableId] = true
		have, existed := byId[want.TableId]
		if !existed {
			plan.Add = append(plan.Add, want)
			if want.Vni != nil {
				plan.vniSets = append(plan.vniSets, want)
			}
			continue
		}
		if vrfConfigEqual(have, want) {
			plan.Keep = append(plan.Keep, want)
			continue
		}
		plan.Change = append(plan.Change, vrfChange{Old: have, New: want})
		if !vniEqual(have.Vni, want.Vni) {
			if have.Vni != nil {
				plan.vniUnsets = append(plan.vniUnsets, have)
			}
			if want.Vni != nil {
				plan.vniSets = append(plan.vniSets, want)
			}
		}
	}

	for _, have := range current {
		if seen[have.TableId] {
			continue
		}
		if have.TableId == 0 {
			// VRF 0 is never deleted, only detached from.
			if have.Vni != nil {
				plan.vniUnsets = append(plan.vniUnsets, have)
			}
			continue
		}
		plan.Delete = append(plan.Delete, have)
		if have.Vni != nil {
			plan.vniUnsets = append(plan.vniUnsets, have)
		}
	}

	return plan
}

// Ops returns the plan flattened into an ordered operation list: every
// VNI unset first, then deletes, changes and adds, then every VNI set.
func (p VrfPlan) Ops() []VrfOp {
	ops := make([]VrfOp, 0, len(p.vniUnsets)+len(p.Delete)+len(p.Change)+len(p.Add)+len(p.vniSets))
	for i := range p.vniUnsets {
		ops = append(ops, VrfOp{UnsetVni: &p.vniUnsets[i]})
	}
	for i := range p.Delete {
		ops = append(ops, VrfOp{Delete: &p.Delete[i]})
	}
	for i := range p.Change {
		ops = append(ops, VrfOp{Change: &p.Change[i]})
	}
	for i := range p.Add {
		ops = append(ops, VrfOp{Add: &p.Add[i]})
	}
	for i := range p.vniSets {
		ops = append(ops, VrfOp{SetVni: &p.vniSets[i]})
	}
	return ops
}

func vniEqual(a, b *wire.Vni) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func vrfConfigEqual(a, b RouterVrfConfig) bool {
	return a.Name == b.Name && a.Description == b.Description &&
		a.TableId == b.TableId && vniEqual(a.Vni, b.Vni)
}
