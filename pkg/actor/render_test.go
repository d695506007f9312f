package actor

import (
	"net/netip"
	"strings"
	"testing"

	"github.com/fabricgw/gwdataplane/pkg/gwconfig"
	"github.com/fabricgw/gwdataplane/pkg/rib"
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

func TestRenderFrrIncludesVrfAndBgpPolicyStanzas(t *testing.T) {
	tableId, err := wire.NewRouteTableId(100)
	if err != nil {
		t.Fatalf("NewRouteTableId: %v", err)
	}
	vni, err := wire.NewVni(100)
	if err != nil {
		t.Fatalf("NewVni: %v", err)
	}

	cc := &gwconfig.CompiledConfig{
		Generation: 3,
		Vrfs:       []rib.RouterVrfConfig{{Name: "Vrf_blue", TableId: tableId, Vni: &vni}},
		BgpPolicies: []gwconfig.BgpPolicy{{
			VpcName:        "blue",
			Remote:         "green",
			ImportPrefixes: []netip.Prefix{netip.MustParsePrefix("10.1.0.0/24")},
			ExportPrefixes: []netip.Prefix{netip.MustParsePrefix("10.0.0.0/24")},
		}},
		DropRoutes: map[string][]netip.Prefix{
			"blue": {netip.MustParsePrefix("10.0.0.128/25")},
		},
	}

	out := string(renderFrr(cc))

	for _, want := range []string{
		"! generation 3",
		"vrf Vrf_blue",
		"ip route 10.0.0.128/25 blackhole vrf Vrf_blue",
		"ip prefix-list IMPORT-blue-green permit 10.1.0.0/24",
		"ip prefix-list EXPORT-blue-green permit 10.0.0.0/24",
		"router bgp vrf blue",
		"neighbor green route-map IMPORT-blue-green in",
		"neighbor green route-map EXPORT-blue-green out",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered config missing %q, got:\n%s", want, out)
		}
	}
}
