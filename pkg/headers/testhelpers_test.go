package headers

import (
	"net/netip"
	"testing"

	"github.com/fabricgw/gwdataplane/pkg/wire"
)

func mustUdpPort(t *testing.T, p uint16) wire.UdpPort {
	t.Helper()
	port, err := wire.NewUdpPort(p)
	if err != nil {
		t.Fatalf("NewUdpPort(%d): %v", p, err)
	}
	return port
}

func mustVni(t *testing.T, v uint32) wire.Vni {
	t.Helper()
	vni, err := wire.NewVni(v)
	if err != nil {
		t.Fatalf("NewVni(%d): %v", v, err)
	}
	return vni
}

func mustAddr4(t *testing.T, s string) netip.Addr {
	t.Helper()
	return netip.MustParseAddr(s)
}
