// Package fib implements the Forwarding Information Base: per-FibId LPM
// tries over IPv4 and IPv6 mapping a prefix to a shared, reference
// counted FibGroup of forwarding instructions, plus the flow-hash
// selection rule used when a group holds more than one entry.
package fib

import (
	"net/netip"

	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// InstructionKind discriminates the PktInstruction union.
type InstructionKind int

const (
	InstrDrop InstructionKind = iota
	InstrLocal
	InstrEncapVxlan
	InstrEncapMpls
	InstrEgress
	InstrNat
)

func (k InstructionKind) String() string {
	switch k {
	case InstrDrop:
		return "Drop"
	case InstrLocal:
		return "Local"
	case InstrEncapVxlan:
		return "EncapVxlan"
	case InstrEncapMpls:
		return "EncapMpls"
	case InstrEgress:
		return "Egress"
	case InstrNat:
		return "Nat"
	default:
		return "Unknown"
	}
}

// VxlanEncap carries the fields needed to push a VXLAN+UDP+IP+Ethernet
// encapsulation, resolved by the RIB's recursive next-hop resolution.
type VxlanEncap struct {
	Vni      wire.Vni
	RemoteIp netip.Addr
	LocalIp  netip.Addr
	SrcMac   wire.Mac
	DstMac   wire.Mac
}

// PktInstruction is one step of a FibEntry's instruction sequence.
type PktInstruction struct {
	Kind       InstructionKind
	Ifindex    wire.InterfaceIndex // Local, Egress
	NextHopIp  netip.Addr          // Egress
	Vxlan      VxlanEncap          // EncapVxlan
	MplsLabel  uint32              // EncapMpls
}

// Drop returns the single-instruction Drop entry installed as the
// default at every FIB's root.
func Drop() PktInstruction { return PktInstruction{Kind: InstrDrop} }

// Local returns an instruction delivering the packet to the local stack
// on ifindex.
func Local(ifindex wire.InterfaceIndex) PktInstruction {
	return PktInstruction{Kind: InstrLocal, Ifindex: ifindex}
}

// Egress returns an instruction forwarding the packet out ifindex toward
// nextHop. Either field may be the zero value if unresolved.
func Egress(ifindex wire.InterfaceIndex, nextHop netip.Addr) PktInstruction {
	return PktInstruction{Kind: InstrEgress, Ifindex: ifindex, NextHopIp: nextHop}
}

// EncapVxlan returns an instruction pushing a VXLAN encapsulation.
func EncapVxlan(v VxlanEncap) PktInstruction {
	return PktInstruction{Kind: InstrEncapVxlan, Vxlan: v}
}

// EncapMpls returns an instruction pushing an MPLS label.
func EncapMpls(label uint32) PktInstruction {
	return PktInstruction{Kind: InstrEncapMpls, MplsLabel: label}
}

// Nat returns an instruction marking the packet for a NAT rewrite stage.
func Nat() PktInstruction { return PktInstruction{Kind: InstrNat} }

// FibEntry is an ordered sequence of instructions executed in full for a
// packet that resolves to it.
type FibEntry []PktInstruction

// SquashEgress merges consecutive Egress instructions within entry: the
// address is taken from the later instruction when set, otherwise the
// earlier; the ifindex is taken from the earlier instruction when the
// later instruction's ifindex is unset, otherwise the later.
func SquashEgress(entry FibEntry) FibEntry {
	out := make(FibEntry, 0, len(entry))
	for _, instr := range entry {
		if instr.Kind == InstrEgress && len(out) > 0 && out[len(out)-1].Kind == InstrEgress {
			prev := out[len(out)-1]
			merged := PktInstruction{Kind: InstrEgress, NextHopIp: prev.NextHopIp, Ifindex: prev.Ifindex}
			if instr.NextHopIp.IsValid() {
				merged.NextHopIp = instr.NextHopIp
			}
			if instr.Ifindex != 0 {
				merged.Ifindex = instr.Ifindex
			}
			out[len(out)-1] = merged
			continue
		}
		out = append(out, instr)
	}
	return out
}
