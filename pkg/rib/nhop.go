// Package rib implements the Routing Information Base: per-VRF route
// tables, next-hop interning with recursive resolution into compiled
// FIB groups, the adjacency and router-MAC stores resolution consults,
// and VRF reconfiguration planning.
package rib

import (
	"net/netip"

	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// FwAction is the terminal forwarding action carried by a next-hop key.
type FwAction int

const (
	FwDrop FwAction = iota
	FwForward
)

// EncapKind discriminates the encapsulation a next-hop may push.
type EncapKind int

const (
	EncapNone EncapKind = iota
	EncapVxlan
	EncapMpls
)

// Encap is the encapsulation component of a next-hop key. VXLAN's source
// MAC and local IP are not part of the key: they are filled in from
// process-wide state during resolution, not chosen by the route itself.
type Encap struct {
	Kind      EncapKind
	Vni       wire.Vni   // EncapVxlan
	RemoteIp  netip.Addr // EncapVxlan
	MplsLabel uint32     // EncapMpls
}

// NhopKey is the 4-tuple identity of an interned next-hop: address,
// ifindex, optional encapsulation, and forwarding action.
type NhopKey struct {
	Address netip.Addr
	Ifindex wire.InterfaceIndex
	Encap   Encap
	Action  FwAction
}

// Nhop is an interned next-hop node. Resolvers form a DAG: a next-hop
// may recurse through other next-hops, possibly in another VRF.
type Nhop struct {
	Key       NhopKey
	Resolvers []*Nhop
}

// NhopStore interns next-hops per VRF, returning the existing node when
// a key repeats.
type NhopStore struct {
	nodes map[NhopKey]*Nhop
}

// NewNhopStore returns an empty store.
func NewNhopStore() *NhopStore {
	return &NhopStore{nodes: make(map[NhopKey]*Nhop)}
}

// Intern returns the existing Nhop for key, creating one if absent.
func (s *NhopStore) Intern(key NhopKey) *Nhop {
	if n, ok := s.nodes[key]; ok {
		return n
	}
	n := &Nhop{Key: key}
	s.nodes[key] = n
	return n
}

// AddResolver appends resolver to n's edge list. Duplicate edges (same
// resolver already present) are ignored.
func (n *Nhop) AddResolver(resolver *Nhop) {
	for _, r := range n.Resolvers {
		if r == resolver {
			return
		}
	}
	n.Resolvers = append(n.Resolvers, resolver)
}

// detectCycle reports whether start can reach itself by following
// resolver edges, used to reject a DAG-breaking AddResolver before it is
// committed.
func detectCycle(start, candidate *Nhop) bool {
	if start == candidate {
		return true
	}
	visited := map[*Nhop]bool{}
	var walk func(n *Nhop) bool
	walk = func(n *Nhop) bool {
		if n == start {
			return true
		}
		if visited[n] {
			return false
		}
		visited[n] = true
		for _, r := range n.Resolvers {
			if walk(r) {
				return true
			}
		}
		return false
	}
	return walk(candidate)
}

// AddResolverChecked adds resolver to n's edge list, rejecting the
// addition if it would introduce a cycle.
func (n *Nhop) AddResolverChecked(resolver *Nhop) error {
	if detectCycle(n, resolver) {
		return errCycle(n, resolver)
	}
	n.AddResolver(resolver)
	return nil
}
