package rib

import (
	"github.com/fabricgw/gwdataplane/pkg/fib"
	"github.com/fabricgw/gwdataplane/pkg/util"
)

// immediateInstructions computes a next-hop's own instructions from its
// key alone, resolving any encapsulation against the process-wide VTEP
// record and the router-MAC store. A missing VTEP or router-MAC entry is
// logged and leaves the corresponding field unset; it never aborts
// compilation.
func immediateInstructions(n *Nhop, vtep VtepRecord, macs *RouterMacStore) []fib.PktInstruction {
	if n.Key.Action == FwDrop {
		return []fib.PktInstruction{fib.Drop()}
	}

	switch n.Key.Encap.Kind {
	case EncapVxlan:
		ve := fib.VxlanEncap{
			Vni:      n.Key.Encap.Vni,
			RemoteIp: n.Key.Encap.RemoteIp,
			LocalIp:  vtep.LocalIp,
			SrcMac:   vtep.SrcMac,
		}
		if !vtep.LocalIp.IsValid() {
			util.WithFields(map[string]interface{}{
				"vni": n.Key.Encap.Vni.Uint32(),
			}).Warn("rib: no local vtep record, encapsulation will carry an unset local ip/src mac")
		}
		if mac, ok := macs.Lookup(n.Key.Encap.Vni, n.Key.Encap.RemoteIp); ok {
			ve.DstMac = mac
		} else {
			util.WithFields(map[string]interface{}{
				"vni":    n.Key.Encap.Vni.Uint32(),
				"remote": n.Key.Encap.RemoteIp.String(),
			}).Warn("rib: no router mac entry, encapsulation will carry an unset destination mac")
		}
		return []fib.PktInstruction{
			fib.EncapVxlan(ve),
			fib.Egress(n.Key.Ifindex, n.Key.Address),
		}
	case EncapMpls:
		return []fib.PktInstruction{
			fib.EncapMpls(n.Key.Encap.MplsLabel),
			fib.Egress(n.Key.Ifindex, n.Key.Address),
		}
	default:
		if n.Key.Ifindex != 0 {
			return []fib.PktInstruction{fib.Egress(n.Key.Ifindex, n.Key.Address)}
		}
		return nil
	}
}

// ResolveGroup recursively resolves n into the FibGroup it compiles to:
// one FibEntry per path through the resolver DAG to a leaf, each
// squashed so consecutive Egress instructions collapse into one.
func ResolveGroup(n *Nhop, vtep VtepRecord, macs *RouterMacStore) *fib.FibGroup {
	var entries []fib.FibEntry
	resolveInto(n, vtep, macs, nil, &entries)
	return fib.NewFibGroup(entries...)
}

func resolveInto(n *Nhop, vtep VtepRecord, macs *RouterMacStore, prefix []fib.PktInstruction, out *[]fib.FibEntry) {
	instrs := immediateInstructions(n, vtep, macs)
	combined := make([]fib.PktInstruction, 0, len(prefix)+len(instrs))
	combined = append(combined, prefix...)
	combined = append(combined, instrs...)

	if len(n.Resolvers) == 0 {
		*out = append(*out, fib.SquashEgress(fib.FibEntry(combined)))
		return
	}
	for _, r := range n.Resolvers {
		resolveInto(r, vtep, macs, combined, out)
	}
}
