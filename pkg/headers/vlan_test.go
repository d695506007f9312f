package headers

import (
	"testing"

	"github.com/fabricgw/gwdataplane/pkg/wire"
)

func TestPushPopVlanInverse(t *testing.T) {
	outer := wire.EthTypeIPv4
	vid, err := wire.NewVid(100)
	if err != nil {
		t.Fatalf("NewVid: %v", err)
	}

	newOuter, vlans, err := PushVlan(outer, nil, vid, wire.EthTypeVlan)
	if err != nil {
		t.Fatalf("PushVlan: %v", err)
	}
	if newOuter != wire.EthTypeVlan {
		t.Fatalf("newOuter = %v, want VLAN", newOuter)
	}
	if len(vlans) != 1 || vlans[0].EtherType != wire.EthTypeIPv4 {
		t.Fatalf("unexpected vlans after push: %+v", vlans)
	}

	poppedInner, rest, ok := PopVlan(vlans)
	if !ok {
		t.Fatal("PopVlan returned ok=false")
	}
	if poppedInner != outer {
		t.Fatalf("popped inner ethertype = %v, want %v", poppedInner, outer)
	}
	if len(rest) != 0 {
		t.Fatalf("rest = %+v, want empty", rest)
	}
}

func TestPushVlanOverflow(t *testing.T) {
	vid, err := wire.NewVid(1)
	if err != nil {
		t.Fatalf("NewVid: %v", err)
	}
	var vlans []Vlan
	outer := wire.EthTypeIPv4
	for i := 0; i < MaxVlans; i++ {
		outer, vlans, err = PushVlan(outer, vlans, vid, wire.EthTypeVlan)
		if err != nil {
			t.Fatalf("PushVlan[%d]: %v", i, err)
		}
	}
	before := append([]Vlan{}, vlans...)
	_, after, err := PushVlan(outer, vlans, vid, wire.EthTypeVlan)
	if err != ErrTooManyVlans {
		t.Fatalf("err = %v, want ErrTooManyVlans", err)
	}
	if len(after) != len(before) {
		t.Fatalf("vlans mutated on overflow: %+v", after)
	}
}

func TestParseVlanRejectsReservedVid(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x08, 0x00} // vid 0
	if _, _, err := ParseVlan(buf); err == nil {
		t.Fatal("expected error for vid 0")
	}
}
