package wire

import (
	"net/netip"
	"testing"
)

func TestNewSourceMac(t *testing.T) {
	tests := []struct {
		name    string
		mac     Mac
		wantErr bool
	}{
		{"valid unicast", Mac{0x02, 0, 0, 0, 0, 1}, false},
		{"all zero rejected", Mac{}, true},
		{"multicast rejected", Mac{0x01, 0, 0, 0, 0, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSourceMac(tt.mac)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSourceMac(%v) error = %v, wantErr %v", tt.mac, err, tt.wantErr)
			}
		})
	}
}

func TestNewDestinationMacAllowsMulticast(t *testing.T) {
	if _, err := NewDestinationMac(Mac{0x01, 0, 0, 0, 0, 1}); err != nil {
		t.Fatalf("multicast destination should be valid: %v", err)
	}
	if _, err := NewDestinationMac(Mac{}); err == nil {
		t.Fatal("all-zero destination should be rejected")
	}
}

func TestNewVid(t *testing.T) {
	if _, err := NewVid(0); err == nil {
		t.Fatal("vid 0 should be rejected")
	}
	if _, err := NewVid(4095); err == nil {
		t.Fatal("vid 4095 should be rejected")
	}
	if _, err := NewVid(1); err != nil {
		t.Fatal("vid 1 should be valid")
	}
	if _, err := NewVid(4094); err != nil {
		t.Fatal("vid 4094 should be valid")
	}
}

func TestNewVni(t *testing.T) {
	if _, err := NewVni(0); err == nil {
		t.Fatal("vni 0 should be rejected")
	}
	if _, err := NewVni(1<<24); err == nil {
		t.Fatal("vni 2^24 should be rejected")
	}
	if _, err := NewVni(100); err != nil {
		t.Fatal("vni 100 should be valid")
	}
}

func TestNewIpv4PrefixRejectsHostBits(t *testing.T) {
	addr := netip.MustParseAddr("10.0.0.5")
	if _, err := NewIpv4Prefix(addr, 24); err == nil {
		t.Fatal("10.0.0.5/24 has non-zero host bits and should be rejected")
	}
	network := netip.MustParseAddr("10.0.0.0")
	p, err := NewIpv4Prefix(network, 24)
	if err != nil {
		t.Fatalf("10.0.0.0/24 should be valid: %v", err)
	}
	if p.String() != "10.0.0.0/24" {
		t.Fatalf("String() = %q", p.String())
	}
}

func TestNewUnicastAddrRejectsMulticast(t *testing.T) {
	if _, err := NewUnicastIpv4Addr(netip.MustParseAddr("224.0.0.1")); err == nil {
		t.Fatal("multicast address should be rejected")
	}
	if _, err := NewUnicastIpv4Addr(netip.MustParseAddr("10.0.0.1")); err != nil {
		t.Fatal("unicast address should be valid")
	}
}

func TestRouteTableIdRejectsReserved(t *testing.T) {
	for _, v := range []uint32{0, 253, 254, 255} {
		if _, err := NewRouteTableId(v); err == nil {
			t.Fatalf("route table id %d should be rejected", v)
		}
	}
	if _, err := NewRouteTableId(100); err != nil {
		t.Fatal("route table id 100 should be valid")
	}
}
