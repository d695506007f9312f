package gwconfig

import (
	"net/netip"
	"testing"

	"github.com/fabricgw/gwdataplane/pkg/wire"
)

func twoVpcDocument() *Document {
	return &Document{
		Generation: 7,
		Vpcs: []VpcDoc{
			{Name: "blue", Id: blueId(), Vni: 100, Peerings: []PeeringDoc{
				{
					Remote: "green",
					Left: ManifestDoc{Exposes: []ExposeDoc{
						{Ips: []string{"10.0.0.0/24"}, As: []string{"1.1.0.0/24"}},
					}},
					Right: ManifestDoc{Exposes: []ExposeDoc{
						{Ips: []string{"10.1.0.0/24"}, As: []string{"1.2.0.0/24"}},
					}},
				},
			}},
			{Name: "green", Id: greenId(), Vni: 200, Peerings: []PeeringDoc{
				{
					Remote: "blue",
					Left: ManifestDoc{Exposes: []ExposeDoc{
						{Ips: []string{"10.1.0.0/24"}, As: []string{"1.2.0.0/24"}},
					}},
					Right: ManifestDoc{Exposes: []ExposeDoc{
						{Ips: []string{"10.0.0.0/24"}, As: []string{"1.1.0.0/24"}},
					}},
				},
			}},
		},
		Interfaces: []InterfaceDoc{{Name: "eth0", Ifindex: 2}},
		Vtep:       VtepDoc{Interface: "eth0", LocalIp: "10.255.255.1", Mac: "02:00:00:00:00:01"},
	}
}

func TestCompileMaterializesOneVrfPerVpc(t *testing.T) {
	cc, err := Compile(twoVpcDocument())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(cc.Vrfs) != 2 {
		t.Fatalf("len(Vrfs) = %d, want 2", len(cc.Vrfs))
	}
	names := map[string]bool{}
	for _, v := range cc.Vrfs {
		names[v.Name] = true
		if v.Vni == nil {
			t.Fatalf("vrf %q missing vni", v.Name)
		}
	}
	if !names["Vrf_blue"] || !names["Vrf_green"] {
		t.Fatalf("vrf names = %v", names)
	}
}

func TestCompileAssignsDistinctTableIds(t *testing.T) {
	cc, err := Compile(twoVpcDocument())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if cc.Vrfs[0].TableId == cc.Vrfs[1].TableId {
		t.Fatalf("both VRFs got table id %d", cc.Vrfs[0].TableId)
	}
}

func TestCompileProducesNatTableForEachVpc(t *testing.T) {
	cc, err := Compile(twoVpcDocument())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := cc.NatTables[wire.Vni(100)]; !ok {
		t.Fatal("expected a nat table for blue's vni")
	}
	if _, ok := cc.NatTables[wire.Vni(200)]; !ok {
		t.Fatal("expected a nat table for green's vni")
	}
}

func TestCompileResolvesVtepFromDocument(t *testing.T) {
	cc, err := Compile(twoVpcDocument())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if cc.Vtep.LocalIp != netip.MustParseAddr("10.255.255.1") {
		t.Fatalf("vtep local ip = %v", cc.Vtep.LocalIp)
	}
}

func TestCompileRejectsBadVtepMac(t *testing.T) {
	doc := twoVpcDocument()
	doc.Vtep.Mac = "not-a-mac"
	if _, err := Compile(doc); err == nil {
		t.Fatal("expected an error for a malformed vtep mac")
	}
}

func TestCompileRecordsBgpPoliciesPerPeering(t *testing.T) {
	cc, err := Compile(twoVpcDocument())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(cc.BgpPolicies) != 2 {
		t.Fatalf("len(BgpPolicies) = %d, want 2", len(cc.BgpPolicies))
	}
}
