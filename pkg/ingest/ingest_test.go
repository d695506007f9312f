package ingest

import (
	"net/netip"
	"testing"

	"github.com/fabricgw/gwdataplane/pkg/fib"
	"github.com/fabricgw/gwdataplane/pkg/rib"
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

type fakeRibs struct {
	ribs       map[uint32]*rib.Rib
	vtep       rib.VtepRecord
	haveConfig bool
}

func (f *fakeRibs) Rib(vrfId uint32) (*rib.Rib, bool) { r, ok := f.ribs[vrfId]; return r, ok }
func (f *fakeRibs) Vtep() rib.VtepRecord              { return f.vtep }
func (f *fakeRibs) HaveConfig() bool                  { return f.haveConfig }
func (f *fakeRibs) All() []*rib.Rib {
	out := make([]*rib.Rib, 0, len(f.ribs))
	for _, r := range f.ribs {
		out = append(out, r)
	}
	return out
}

// newFakeRibs returns a fakeRibs that already has a configuration applied,
// matching the ingester's steady-state operation; tests exercising the
// pre-config guard construct one directly with haveConfig left false.
func newFakeRibs(t *testing.T, tableIds ...wire.RouteTableId) *fakeRibs {
	t.Helper()
	f := &fakeRibs{ribs: make(map[uint32]*rib.Rib), haveConfig: true}
	for _, id := range tableIds {
		f.ribs[uint32(id)] = rib.NewRib(id)
	}
	return f
}

func TestHandleRejectsRequestsBeforeConnect(t *testing.T) {
	f := newFakeRibs(t, 10)
	ing := New(nil, f)
	msg := AddRoute{Header: Header{Seq: 1}, VrfId: 10, Prefix: netip.MustParsePrefix("10.0.0.0/8"), Origin: rib.OriginStatic}
	resp := ing.handle(msg.Encode())
	if resp.Result != ResultInvalidRequest {
		t.Fatalf("Result = %v, want InvalidRequest before Connect", resp.Result)
	}
}

func TestHandleConnectThenAddRouteInstallsFibEntry(t *testing.T) {
	f := newFakeRibs(t, 10)
	ing := New(nil, f)

	connect := Connect{Header: Header{Seq: 1}, Version: CurrentProtocolVersion}
	if resp := ing.handle(connect.Encode()); resp.Result != ResultOk {
		t.Fatalf("Connect result = %v", resp.Result)
	}

	idx, err := wire.NewInterfaceIndex(4)
	if err != nil {
		t.Fatalf("NewInterfaceIndex: %v", err)
	}
	add := AddRoute{
		Header:   Header{Seq: 2},
		VrfId:    10,
		Prefix:   netip.MustParsePrefix("10.0.0.0/24"),
		Origin:   rib.OriginStatic,
		Distance: 1,
		NextHops: []nhopWire{{Address: netip.MustParseAddr("10.0.0.1"), Ifindex: idx, Action: rib.FwForward}},
	}
	resp := ing.handle(add.Encode())
	if resp.Result != ResultOk {
		t.Fatalf("AddRoute result = %v, detail = %q", resp.Result, resp.Detail)
	}

	r, _ := f.Rib(10)
	_, entry, ok := r.Fib.Lookup(fib.FlowKey{Dst: netip.MustParseAddr("10.0.0.5")})
	if !ok {
		t.Fatal("expected the installed route to be reflected in the compiled fib")
	}
	if len(entry) != 1 || entry[0].Ifindex != idx {
		t.Fatalf("entry = %+v, want single Egress on ifindex %v", entry, idx)
	}
}

func TestHandleConnectRejectsMajorVersionMismatch(t *testing.T) {
	f := newFakeRibs(t, 10)
	ing := New(nil, f)
	connect := Connect{Header: Header{Seq: 1}, Version: ProtocolVersion{Major: 99, Minor: 0}}
	resp := ing.handle(connect.Encode())
	if resp.Result != ResultInvalidRequest {
		t.Fatalf("Result = %v, want InvalidRequest for a version mismatch", resp.Result)
	}
}

func TestHandleAddRouteUnknownVrfFails(t *testing.T) {
	f := newFakeRibs(t)
	ing := New(nil, f)
	ing.connected = true
	add := AddRoute{Header: Header{Seq: 1}, VrfId: 99, Prefix: netip.MustParsePrefix("10.0.0.0/8"), Origin: rib.OriginStatic}
	resp := ing.handle(add.Encode())
	if resp.Result != ResultFailure {
		t.Fatalf("Result = %v, want Failure for an unknown vrf", resp.Result)
	}
}

func TestHandleAddRouteBeforeAnyConfigIsIgnoredNotFailed(t *testing.T) {
	f := newFakeRibs(t, 10)
	f.haveConfig = false
	ing := New(nil, f)
	ing.connected = true

	add := AddRoute{Header: Header{Seq: 1}, VrfId: 10, Prefix: netip.MustParsePrefix("10.0.0.0/8"), Origin: rib.OriginStatic}
	resp := ing.handle(add.Encode())
	if resp.Result != ResultOk {
		t.Fatalf("Result = %v, want Ok (ignored) before any config is applied", resp.Result)
	}

	r, _ := f.Rib(10)
	if r.Routes.Best(netip.MustParsePrefix("10.0.0.0/8")) != nil {
		t.Fatal("route should not have been installed before any config is applied")
	}
}

func TestHandleDelRouteForUnknownVrfBeforeAnyConfigIsIgnoredNotFailed(t *testing.T) {
	f := newFakeRibs(t)
	f.haveConfig = false
	ing := New(nil, f)
	ing.connected = true

	del := DelRoute{Header: Header{Seq: 1}, VrfId: 99, Prefix: netip.MustParsePrefix("10.0.0.0/8"), Origin: rib.OriginStatic}
	resp := ing.handle(del.Encode())
	if resp.Result != ResultOk {
		t.Fatalf("Result = %v, want Ok before any config is applied", resp.Result)
	}
}

func TestHandleDelRouteForUnknownVrfAfterConfigFails(t *testing.T) {
	f := newFakeRibs(t)
	ing := New(nil, f)
	ing.connected = true

	del := DelRoute{Header: Header{Seq: 1}, VrfId: 99, Prefix: netip.MustParsePrefix("10.0.0.0/8"), Origin: rib.OriginStatic}
	resp := ing.handle(del.Encode())
	if resp.Result != ResultFailure {
		t.Fatalf("Result = %v, want Failure for an unknown vrf once a config has been applied", resp.Result)
	}
}

func TestHandleUnknownMessageKindIsInvalidRequest(t *testing.T) {
	f := newFakeRibs(t)
	ing := New(nil, f)
	ing.connected = true
	buf := make([]byte, headerSize)
	encodeHeader(buf, MsgKind(200), 1)
	resp := ing.handle(buf)
	if resp.Result != ResultInvalidRequest {
		t.Fatalf("Result = %v, want InvalidRequest for an unknown message", resp.Result)
	}
}

func TestHandleAddThenDelInterfaceAddressRoundTrips(t *testing.T) {
	f := newFakeRibs(t, 10)
	ing := New(nil, f)
	ing.connected = true

	idx, _ := wire.NewInterfaceIndex(2)
	addr := netip.MustParseAddr("10.0.0.9")
	mac := wire.NewMac([6]byte{1, 1, 1, 1, 1, 1})
	add := AddInterfaceAddress{Header: Header{Seq: 1}, Address: addr, Ifindex: idx, Mac: mac}
	if resp := ing.handle(add.Encode()); resp.Result != ResultOk {
		t.Fatalf("AddInterfaceAddress result = %v", resp.Result)
	}

	r, _ := f.Rib(10)
	if got, ok := r.Adj.Lookup(addr, idx); !ok || got != mac {
		t.Fatalf("Lookup = (%v, %v), want (%v, true)", got, ok, mac)
	}

	del := DelInterfaceAddress{Header: Header{Seq: 2}, Address: addr, Ifindex: idx}
	if resp := ing.handle(del.Encode()); resp.Result != ResultOk {
		t.Fatalf("DelInterfaceAddress result = %v", resp.Result)
	}
	if _, ok := r.Adj.Lookup(addr, idx); ok {
		t.Fatal("expected the adjacency entry to be gone after Del")
	}
}
