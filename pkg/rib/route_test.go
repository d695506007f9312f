package rib

import (
	"net/netip"
	"testing"
)

func TestRouteTableBestPrefersLowerDistance(t *testing.T) {
	rt := NewRouteTable()
	prefix := netip.MustParsePrefix("10.0.0.0/24")
	rt.Add(prefix, &Route{Origin: OriginBGP, Distance: 20})
	rt.Add(prefix, &Route{Origin: OriginStatic, Distance: 1})

	best := rt.Best(prefix)
	if best == nil || best.Origin != OriginStatic {
		t.Fatalf("best = %+v, want static route", best)
	}
}

func TestRouteTableBestBreaksTiesOnMetric(t *testing.T) {
	rt := NewRouteTable()
	prefix := netip.MustParsePrefix("10.0.0.0/24")
	rt.Add(prefix, &Route{Origin: OriginBGP, Distance: 20, Metric: 100})
	rt.Add(prefix, &Route{Origin: OriginBGP, Distance: 20, Metric: 10})

	best := rt.Best(prefix)
	if best == nil || best.Metric != 10 {
		t.Fatalf("best = %+v, want metric 10", best)
	}
}

func TestRouteTableRemoveDeletesOnlyMatchingOrigin(t *testing.T) {
	rt := NewRouteTable()
	prefix := netip.MustParsePrefix("10.0.0.0/24")
	rt.Add(prefix, &Route{Origin: OriginBGP, Distance: 20})
	rt.Add(prefix, &Route{Origin: OriginStatic, Distance: 1})

	if !rt.Remove(prefix, OriginStatic) {
		t.Fatal("expected removal to report true")
	}
	best := rt.Best(prefix)
	if best == nil || best.Origin != OriginBGP {
		t.Fatalf("best = %+v, want remaining bgp route", best)
	}
}

func TestRouteTableRemoveLastRouteDropsPrefix(t *testing.T) {
	rt := NewRouteTable()
	prefix := netip.MustParsePrefix("10.0.0.0/24")
	rt.Add(prefix, &Route{Origin: OriginStatic})
	rt.Remove(prefix, OriginStatic)

	if rt.Best(prefix) != nil {
		t.Fatal("expected no route after removing the only one")
	}
	if len(rt.Prefixes()) != 0 {
		t.Fatal("expected prefix to be dropped from the table entirely")
	}
}
