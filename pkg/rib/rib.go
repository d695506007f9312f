package rib

import (
	"net/netip"

	"github.com/fabricgw/gwdataplane/pkg/fib"
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// Rib is one VRF's routing state: the interned next-hop DAG, the route
// table driving it, the adjacency/router-MAC stores resolution consults,
// and the compiled FIB those routes produce.
type Rib struct {
	TableId wire.RouteTableId
	Vni     *wire.Vni

	Nhops   *NhopStore
	Routes  *RouteTable
	Adj     *AdjacencyTable
	RtrMacs *RouterMacStore

	Fib *fib.Fib
}

// NewRib returns an empty RIB for the given route table id, compiling
// into a FIB keyed the same way.
func NewRib(tableId wire.RouteTableId) *Rib {
	return &Rib{
		TableId: tableId,
		Nhops:   NewNhopStore(),
		Routes:  NewRouteTable(),
		Adj:     NewAdjacencyTable(),
		RtrMacs: NewRouterMacStore(),
		Fib:     fib.New(fib.VrfId(uint32(tableId))),
	}
}

// AddRoute installs route for prefix, recomputing the FIB group that
// prefix's winning route compiles to against vtep.
func (r *Rib) AddRoute(prefix netip.Prefix, route *Route, vtep VtepRecord) {
	r.Routes.Add(prefix, route)
	r.recompile(prefix, vtep)
}

// DelRoute removes every route of origin for prefix, recompiling the FIB
// entry for whatever route (if any) now wins.
func (r *Rib) DelRoute(prefix netip.Prefix, origin Origin, vtep VtepRecord) bool {
	removed := r.Routes.Remove(prefix, origin)
	if removed {
		r.recompile(prefix, vtep)
	}
	return removed
}

// recompile resolves the winning route for prefix (if any) into a
// FibGroup and installs it, or removes the prefix's route entirely when
// no route remains.
func (r *Rib) recompile(prefix netip.Prefix, vtep VtepRecord) {
	best := r.Routes.Best(prefix)
	if best == nil {
		r.Fib.RemoveRoute(prefix)
		return
	}

	var entries []fib.FibEntry
	for _, nh := range best.NextHops {
		group := ResolveGroup(nh, vtep, r.RtrMacs)
		entries = append(entries, group.Entries...)
	}
	r.Fib.AddRoute(prefix, entries...)
}
