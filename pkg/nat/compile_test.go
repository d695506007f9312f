package nat

import (
	"net/netip"
	"testing"

	"github.com/fabricgw/gwdataplane/pkg/vpc"
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

func mustPrefix(s string) netip.Prefix { return netip.MustParsePrefix(s) }

func twoVpcFixture() (v, r vpc.Vpc) {
	vExpose := vpc.Expose{
		Ips: []netip.Prefix{mustPrefix("10.0.0.0/24")},
		As:  []netip.Prefix{mustPrefix("1.1.0.0/24")},
	}
	rExpose := vpc.Expose{
		Ips: []netip.Prefix{mustPrefix("10.1.0.0/24")},
		As:  []netip.Prefix{mustPrefix("1.2.0.0/24")},
	}
	v = vpc.Vpc{
		Name: "v",
		Vni:  wire.Vni(100),
		Peerings: []vpc.Peering{
			{
				Remote: "r",
				Left:   vpc.Manifest{Exposes: []vpc.Expose{vExpose}},
				Right:  vpc.Manifest{Exposes: []vpc.Expose{rExpose}},
			},
		},
	}
	r = vpc.Vpc{
		Name: "r",
		Vni:  wire.Vni(200),
		Peerings: []vpc.Peering{
			{
				Remote: "v",
				Left:   vpc.Manifest{Exposes: []vpc.Expose{rExpose}},
				Right:  vpc.Manifest{Exposes: []vpc.Expose{vExpose}},
			},
		},
	}
	return v, r
}

func TestCompileDstNatRewritesPublicToPrivate(t *testing.T) {
	v, r := twoVpcFixture()
	remoteExposes := func(name string) []vpc.Expose {
		if name == "r" {
			return r.Peerings[0].Left.Exposes
		}
		return nil
	}

	table := Compile(v, remoteExposes)

	got, ok, err := ApplyDestNat(table, netip.MustParseAddr("1.2.0.5"))
	if err != nil {
		t.Fatalf("ApplyDestNat: %v", err)
	}
	if !ok {
		t.Fatal("expected a dst-nat match for a remote public address")
	}
	if got.String() != "10.1.0.5" {
		t.Fatalf("got = %v, want 10.1.0.5", got)
	}
}

func TestCompileSrcNatRewritesPrivateToPublic(t *testing.T) {
	v, r := twoVpcFixture()
	remoteExposes := func(name string) []vpc.Expose {
		if name == "r" {
			return r.Peerings[0].Left.Exposes
		}
		return nil
	}

	table := Compile(v, remoteExposes)

	got, ok, err := ApplySourceNat(table, netip.MustParseAddr("10.0.0.5"))
	if err != nil {
		t.Fatalf("ApplySourceNat: %v", err)
	}
	if !ok {
		t.Fatal("expected a src-nat match for a local private address with an exposed peering")
	}
	if got.String() != "1.1.0.5" {
		t.Fatalf("got = %v, want 1.1.0.5", got)
	}
}

func TestCompileNoMatchOutsideAnyExpose(t *testing.T) {
	v, r := twoVpcFixture()
	remoteExposes := func(name string) []vpc.Expose {
		if name == "r" {
			return r.Peerings[0].Left.Exposes
		}
		return nil
	}

	table := Compile(v, remoteExposes)

	_, ok, err := ApplySourceNat(table, netip.MustParseAddr("192.168.1.1"))
	if err != nil {
		t.Fatalf("ApplySourceNat: %v", err)
	}
	if ok {
		t.Fatal("expected no match for an address outside every expose")
	}
}
