package netstate

import (
	"context"
	"net/netip"
	"testing"

	"github.com/vishvananda/netlink"
)

func TestConvergeCreatesVrfBridgeAndVtepWithResolvedMasters(t *testing.T) {
	h := newFakeHandle()
	r := New(h)

	rib := RequiredInformationBase{
		Vrfs: map[string]VrfSpec{
			"Vrf_CUST1": {TableId: 1001},
		},
		Bridges: map[string]BridgeSpec{
			"br-100": {VlanFiltering: false},
		},
		Vteps: map[string]VtepSpec{
			"vtep-100": {Vni: 100, LocalAddr: netip.MustParseAddr("10.0.0.1")},
		},
		Associations: []AssociationSpec{
			{Kind: AssociationBridge, Child: "br-100", Controller: "Vrf_CUST1"},
			{Kind: AssociationVtep, Child: "vtep-100", Controller: "br-100"},
		},
	}

	passes, converged, err := r.Converge(context.Background(), rib, 30)
	if err != nil {
		t.Fatalf("Converge: %v", err)
	}
	if !converged {
		t.Fatalf("expected convergence within budget, took %d passes and gave up", passes)
	}

	vrfLink, err := h.LinkByName("Vrf_CUST1")
	if err != nil {
		t.Fatalf("expected Vrf_CUST1 to be created: %v", err)
	}
	brLink, err := h.LinkByName("br-100")
	if err != nil {
		t.Fatalf("expected br-100 to be created: %v", err)
	}
	vtepLink, err := h.LinkByName("vtep-100")
	if err != nil {
		t.Fatalf("expected vtep-100 to be created: %v", err)
	}

	if brLink.Attrs().MasterIndex != vrfLink.Attrs().Index {
		t.Fatalf("br-100 master = %d, want VRF ifindex %d", brLink.Attrs().MasterIndex, vrfLink.Attrs().Index)
	}
	if vtepLink.Attrs().MasterIndex != brLink.Attrs().Index {
		t.Fatalf("vtep-100 master = %d, want bridge ifindex %d", vtepLink.Attrs().MasterIndex, brLink.Attrs().Index)
	}
}

func TestConvergeIsNoOpOnceSettled(t *testing.T) {
	h := newFakeHandle()
	r := New(h)
	rib := RequiredInformationBase{
		Vrfs: map[string]VrfSpec{"Vrf_CUST1": {TableId: 1001}},
	}

	if _, converged, err := r.Converge(context.Background(), rib, 30); err != nil || !converged {
		t.Fatalf("first Converge: converged=%v err=%v", converged, err)
	}

	passes, converged, err := r.Converge(context.Background(), rib, 30)
	if err != nil {
		t.Fatalf("second Converge: %v", err)
	}
	if !converged || passes != 1 {
		t.Fatalf("expected immediate no-op convergence, got passes=%d converged=%v", passes, converged)
	}
}

func TestConvergeNeverCreatesOrRemovesPlainInterfaces(t *testing.T) {
	h := newFakeHandle()
	// eth0 exists in the kernel but isn't named in rib.Interfaces.
	h.links["eth0"] = &netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "eth0", Index: 1, MTU: 1500}}
	h.nextIdx = 2

	r := New(h)
	_, converged, err := r.Converge(context.Background(), RequiredInformationBase{}, 5)
	if err != nil {
		t.Fatalf("Converge: %v", err)
	}
	if !converged {
		t.Fatal("expected convergence: an unrequired plain interface must not block it")
	}
	if _, err := h.LinkByName("eth0"); err != nil {
		t.Fatal("eth0 must not have been removed")
	}
}
