package ingest

import (
	"net/netip"
	"testing"

	"github.com/fabricgw/gwdataplane/pkg/rib"
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

func TestConnectRoundTrip(t *testing.T) {
	msg := Connect{Header: Header{Seq: 1}, Version: ProtocolVersion{Major: 1, Minor: 0}}
	decoded, err := Decode(msg.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := decoded.(Connect)
	if !ok {
		t.Fatalf("decoded = %T, want Connect", decoded)
	}
	if got.Version != msg.Version || got.Seq != msg.Seq {
		t.Fatalf("got = %+v, want %+v", got, msg)
	}
}

func TestAddRouteRoundTripV4(t *testing.T) {
	msg := AddRoute{
		Header:   Header{Seq: 7},
		VrfId:    10,
		Prefix:   netip.MustParsePrefix("10.0.0.0/24"),
		Origin:   rib.OriginBGP,
		Distance: 20,
		Metric:   5,
		NextHops: []nhopWire{
			{Address: netip.MustParseAddr("10.0.0.1"), Ifindex: 4, Action: rib.FwForward},
			{
				Action: rib.FwForward,
				Encap: rib.Encap{
					Kind:     rib.EncapVxlan,
					Vni:      wire.Vni(100),
					RemoteIp: netip.MustParseAddr("192.0.2.1"),
				},
			},
		},
	}
	decoded, err := Decode(msg.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := decoded.(AddRoute)
	if !ok {
		t.Fatalf("decoded = %T, want AddRoute", decoded)
	}
	if got.VrfId != msg.VrfId || got.Prefix != msg.Prefix || got.Origin != msg.Origin {
		t.Fatalf("got = %+v, want %+v", got, msg)
	}
	if len(got.NextHops) != 2 {
		t.Fatalf("NextHops = %d, want 2", len(got.NextHops))
	}
	if got.NextHops[0].Ifindex != 4 || got.NextHops[0].Address != msg.NextHops[0].Address {
		t.Fatalf("NextHops[0] = %+v", got.NextHops[0])
	}
	if got.NextHops[1].Encap.Vni != wire.Vni(100) || got.NextHops[1].Encap.RemoteIp != msg.NextHops[1].Encap.RemoteIp {
		t.Fatalf("NextHops[1] = %+v", got.NextHops[1])
	}
}

func TestAddRouteRoundTripV6(t *testing.T) {
	msg := AddRoute{
		Header: Header{Seq: 1},
		Prefix: netip.MustParsePrefix("2001:db8::/32"),
		Origin: rib.OriginStatic,
	}
	decoded, err := Decode(msg.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := decoded.(AddRoute)
	if got.Prefix != msg.Prefix {
		t.Fatalf("Prefix = %v, want %v", got.Prefix, msg.Prefix)
	}
}

func TestDelRouteRoundTrip(t *testing.T) {
	msg := DelRoute{Header: Header{Seq: 3}, VrfId: 1, Prefix: netip.MustParsePrefix("10.0.0.0/8"), Origin: rib.OriginBGP}
	decoded, err := Decode(msg.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := decoded.(DelRoute)
	if got.Seq != msg.Seq || got.VrfId != msg.VrfId || got.Prefix != msg.Prefix || got.Origin != msg.Origin {
		t.Fatalf("got = %+v, want %+v", got, msg)
	}
}

func TestAddRouterMacRoundTrip(t *testing.T) {
	mac := wire.NewMac([6]byte{1, 2, 3, 4, 5, 6})
	msg := AddRouterMac{Header: Header{Seq: 2}, Vni: wire.Vni(42), Remote: netip.MustParseAddr("192.0.2.9"), Mac: mac}
	decoded, err := Decode(msg.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := decoded.(AddRouterMac)
	if got.Seq != msg.Seq || got.Vni != msg.Vni || got.Remote != msg.Remote || got.Mac != msg.Mac {
		t.Fatalf("got = %+v, want %+v", got, msg)
	}
}

func TestAddInterfaceAddressRoundTrip(t *testing.T) {
	mac := wire.NewMac([6]byte{6, 5, 4, 3, 2, 1})
	msg := AddInterfaceAddress{Header: Header{Seq: 9}, Address: netip.MustParseAddr("10.0.0.1"), Ifindex: 3, Mac: mac}
	decoded, err := Decode(msg.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := decoded.(AddInterfaceAddress)
	if got.Seq != msg.Seq || got.Address != msg.Address || got.Ifindex != msg.Ifindex || got.Mac != msg.Mac {
		t.Fatalf("got = %+v, want %+v", got, msg)
	}
}

func TestResponseRoundTripWithDetail(t *testing.T) {
	msg := Response{Header: Header{Seq: 4}, Op: MsgAddRoute, Result: ResultFailure, Detail: "no such vrf: 9"}
	decoded, err := Decode(msg.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := decoded.(Response)
	if got.Seq != msg.Seq || got.Op != msg.Op || got.Result != msg.Result || got.Detail != msg.Detail {
		t.Fatalf("got = %+v, want %+v", got, msg)
	}
}

func TestDecodeUnknownKindIsInvalidRequest(t *testing.T) {
	buf := make([]byte, headerSize)
	encodeHeader(buf, MsgKind(250), 1)
	_, err := Decode(buf)
	if err == nil {
		t.Fatal("expected an error for an unknown message kind")
	}
}

func TestDecodeShortBufferReportsLengthError(t *testing.T) {
	_, err := Decode([]byte{byte(MsgConnect)})
	if err == nil {
		t.Fatal("expected a length error for a truncated header")
	}
}
