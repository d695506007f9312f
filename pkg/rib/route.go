package rib

import (
	"net/netip"
	"sort"
)

// Origin identifies how a route was learned.
type Origin int

const (
	OriginLocal Origin = iota
	OriginConnected
	OriginStatic
	OriginOSPF
	OriginISIS
	OriginBGP
)

func (o Origin) String() string {
	switch o {
	case OriginLocal:
		return "local"
	case OriginConnected:
		return "connected"
	case OriginStatic:
		return "static"
	case OriginOSPF:
		return "ospf"
	case OriginISIS:
		return "isis"
	case OriginBGP:
		return "bgp"
	default:
		return "unknown"
	}
}

// Route is one candidate path to a prefix. Lower Distance wins between
// origins; lower Metric breaks ties within the same origin/distance.
type Route struct {
	Origin   Origin
	Distance uint8
	Metric   uint32
	NextHops []*Nhop
}

// RouteTable holds the candidate routes known for every prefix in one
// VRF. Entries for a prefix are kept sorted best-first.
type RouteTable struct {
	routes map[netip.Prefix][]*Route
}

// NewRouteTable returns an empty table.
func NewRouteTable() *RouteTable {
	return &RouteTable{routes: make(map[netip.Prefix][]*Route)}
}

// Add inserts route for prefix, keeping the prefix's route slice sorted
// by (Distance, Metric) ascending.
func (t *RouteTable) Add(prefix netip.Prefix, route *Route) {
	routes := append(t.routes[prefix], route)
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].Distance != routes[j].Distance {
			return routes[i].Distance < routes[j].Distance
		}
		return routes[i].Metric < routes[j].Metric
	})
	t.routes[prefix] = routes
}

// Remove deletes every route of origin for prefix, reporting whether any
// were removed.
func (t *RouteTable) Remove(prefix netip.Prefix, origin Origin) bool {
	routes, ok := t.routes[prefix]
	if !ok {
		return false
	}
	kept := make([]*Route, 0, len(routes))
	removed := false
	for _, r := range routes {
		if r.Origin == origin {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		delete(t.routes, prefix)
	} else {
		t.routes[prefix] = kept
	}
	return removed
}

// Best returns the winning route for prefix: the first entry of the
// sorted slice, or nil if the prefix has no routes.
func (t *RouteTable) Best(prefix netip.Prefix) *Route {
	routes := t.routes[prefix]
	if len(routes) == 0 {
		return nil
	}
	return routes[0]
}

// Prefixes returns every prefix currently holding at least one route.
func (t *RouteTable) Prefixes() []netip.Prefix {
	out := make([]netip.Prefix, 0, len(t.routes))
	for p := range t.routes {
		out = append(out, p)
	}
	return out
}
