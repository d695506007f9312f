package gwconfig

import (
	"fmt"
	"net/netip"
	"sort"

	"github.com/fabricgw/gwdataplane/pkg/nat"
	"github.com/fabricgw/gwdataplane/pkg/rib"
	"github.com/fabricgw/gwdataplane/pkg/vpc"
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// firstVrfTableId is the lowest kernel routing table id this compiler
// assigns to a tenant VRF; ids below it are reserved for the underlay.
const firstVrfTableId = 100

func parseAddr(s string) (netip.Addr, error) {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	if a.Is4() {
		if _, err := wire.NewUnicastIpv4Addr(a); err != nil {
			return netip.Addr{}, err
		}
	} else {
		if _, err := wire.NewUnicastIpv6Addr(a); err != nil {
			return netip.Addr{}, err
		}
	}
	return a, nil
}

// BgpPolicy is one peering's import/export prefix lists, keyed off the
// two VPCs' manifests: what v advertises toward remote (export) and what
// it accepts from remote (import).
type BgpPolicy struct {
	VpcName        string
	Remote         string
	ImportPrefixes []netip.Prefix
	ExportPrefixes []netip.Prefix
}

// CompiledConfig is the internal form materialized from a Document by
// Apply step 3: per-VPC VRF configs, BGP policy keyed off peering
// membership, static drop routes for excluded prefixes, the compiled
// per-VNI NAT tables, and the resolved VTEP identity.
type CompiledConfig struct {
	Generation  GenId
	Vrfs        []rib.RouterVrfConfig
	BgpPolicies []BgpPolicy
	DropRoutes  map[string][]netip.Prefix
	NatTables   map[wire.Vni]*nat.Table
	Vtep        rib.VtepRecord
}

func vpcRegistry(doc *Document) (map[string]vpc.Vpc, []string, error) {
	registry := make(map[string]vpc.Vpc, len(doc.Vpcs))
	order := make([]string, 0, len(doc.Vpcs))
	for _, vd := range doc.Vpcs {
		v, err := toVpc(vd)
		if err != nil {
			return nil, nil, ErrInternalFailure(fmt.Sprintf("vpc %q: %v", vd.Name, err))
		}
		registry[v.Name] = v
		order = append(order, v.Name)
	}
	sort.Strings(order)
	return registry, order, nil
}

// exposesToward returns the exposes remote publishes back at self, found
// by locating remote's own peering entry naming self.
func exposesToward(registry map[string]vpc.Vpc, remote, self string) []vpc.Expose {
	r, ok := registry[remote]
	if !ok {
		return nil
	}
	for _, p := range r.Peerings {
		if p.Remote == self {
			return p.Left.Exposes
		}
	}
	return nil
}

func excludedPrefixes(v vpc.Vpc) []netip.Prefix {
	var out []netip.Prefix
	for _, p := range v.Peerings {
		for _, e := range p.Left.Exposes {
			out = append(out, e.Nots...)
			out = append(out, e.NotAs...)
		}
	}
	return out
}

// Compile runs §4.6 Apply step 3 against doc, assumed already validated.
func Compile(doc *Document) (*CompiledConfig, error) {
	registry, order, err := vpcRegistry(doc)
	if err != nil {
		return nil, err
	}

	cc := &CompiledConfig{
		Generation: GenId(doc.Generation),
		DropRoutes: make(map[string][]netip.Prefix, len(order)),
		NatTables:  make(map[wire.Vni]*nat.Table, len(order)),
	}

	for i, name := range order {
		v := registry[name]

		tableId, err := wire.NewRouteTableId(uint32(firstVrfTableId + i))
		if err != nil {
			return nil, ErrInternalFailure(fmt.Sprintf("vpc %q: %v", name, err))
		}
		vni := v.Vni
		cc.Vrfs = append(cc.Vrfs, rib.RouterVrfConfig{
			Name:        "Vrf_" + name,
			Description: fmt.Sprintf("tenant VPC %s", name),
			TableId:     tableId,
			Vni:         &vni,
		})

		for _, p := range v.Peerings {
			cc.BgpPolicies = append(cc.BgpPolicies, BgpPolicy{
				VpcName:        name,
				Remote:         p.Remote,
				ImportPrefixes: flattenPrivatePrefixes(exposesToward(registry, p.Remote, name)),
				ExportPrefixes: flattenPrivatePrefixes(p.Left.Exposes),
			})
		}

		cc.DropRoutes[name] = excludedPrefixes(v)

		cc.NatTables[vni] = nat.Compile(v, func(remote string) []vpc.Expose {
			return exposesToward(registry, remote, name)
		})
	}

	vtep, err := compileVtep(doc.Vtep)
	if err != nil {
		return nil, err
	}
	cc.Vtep = vtep

	return cc, nil
}

// flattenPrivatePrefixes collects the private (Ips) side of a manifest's
// exposes: the prefixes a peering's BGP policy imports/exports between
// the two VRFs, as opposed to the public NAT-facing As side pkg/nat
// compiles separately.
func flattenPrivatePrefixes(exposes []vpc.Expose) []netip.Prefix {
	var out []netip.Prefix
	for _, e := range exposes {
		out = append(out, e.Ips...)
	}
	return out
}

func compileVtep(d VtepDoc) (rib.VtepRecord, error) {
	if d.LocalIp == "" || d.Mac == "" {
		return rib.VtepRecord{}, nil
	}
	addr, err := parseAddr(d.LocalIp)
	if err != nil {
		return rib.VtepRecord{}, ErrInternalFailure(fmt.Sprintf("vtep local_ip: %v", err))
	}
	mac, err := wire.ParseMac(d.Mac)
	if err != nil {
		return rib.VtepRecord{}, configError(BadVtepMacAddress, fmt.Sprintf("%q: %v", d.Mac, err))
	}
	srcMac, err := wire.NewSourceMac(mac)
	if err != nil {
		return rib.VtepRecord{}, configError(BadVtepMacAddress, fmt.Sprintf("%q: %v", d.Mac, err))
	}
	return rib.VtepRecord{LocalIp: addr, SrcMac: srcMac.Mac()}, nil
}
