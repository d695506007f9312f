// Package nat compiles VPC peerings into per-VNI stateless NAT tables —
// tries over pkg/lpm mapping an address to the rewrite it requires — and
// implements the source/destination NAT packet stages that apply them.
package nat

import (
	"net/netip"

	"github.com/fabricgw/gwdataplane/pkg/lpm"
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// TrieValue is the rewrite rule installed at a trie node: the allow/
// exclude prefix pairs on both the current and target side of a static
// NAT mapping. A nil *TrieValue (installed by an exclude prefix) carves
// that sub-prefix out of an enclosing allow.
type TrieValue struct {
	CurrentPrefixes []netip.Prefix
	CurrentExcludes []netip.Prefix
	TargetPrefixes  []netip.Prefix
	TargetExcludes  []netip.Prefix
}

// SrcNatPeer is one candidate source-NAT table a source-VPC prefix may
// resolve through; src_nat_peers records, for each of the VPC's private
// prefixes, which peer tables to try.
type SrcNatPeer struct {
	Table *lpm.Trie[*TrieValue]
}

// Table is the compiled stateless-NAT state for one VNI: a destination
// table shared by every peer, and one source table per peering plus the
// index from a private prefix to the peer tables it may resolve through.
type Table struct {
	Vni wire.Vni

	DstNat *lpm.Trie[*TrieValue]

	SrcNatPrefixes []*SrcNatPeer
	SrcNatPeers    *lpm.Trie[[]int]
}

// NewTable returns an empty compiled table for vni.
func NewTable(vni wire.Vni) *Table {
	return &Table{
		Vni:         vni,
		DstNat:      lpm.New[*TrieValue](),
		SrcNatPeers: lpm.New[[]int](),
	}
}
