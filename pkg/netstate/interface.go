package netstate

import (
	"context"
	"errors"

	"github.com/vishvananda/netlink"
)

// ErrInterfaceNotCreatable is returned by interfaceDriver.Create/Remove: an
// InterfaceSpec only configures an interface the kernel already has (a
// physical port, an existing veth), it never provisions or deletes one.
var ErrInterfaceNotCreatable = errors.New("netstate: kernel interfaces are configured, not created or removed")

// InterfaceObservation is the live state of one non-managed kernel
// interface (anything that isn't a VRF, bridge, or VXLAN device this
// reconciler owns).
type InterfaceObservation struct {
	name    string
	ifindex int
	mtu     int
	up      bool
}

func (o InterfaceObservation) Name() string { return o.name }

// IsOther always reports true: interfaces are never created by this
// reconciler, so they must also never be auto-removed by it — deleting a
// physical NIC because it dropped out of the required set would be
// destructive in a way the VRF/bridge/VTEP kinds this reconciler owns
// outright are not.
func (o InterfaceObservation) IsOther() bool { return true }

func (o InterfaceObservation) AsRequirement() InterfaceSpec {
	return InterfaceSpec{Mtu: o.mtu, Up: o.up}
}

func (o InterfaceObservation) Ifindex() int { return o.ifindex }

type interfaceDriver struct {
	h linkHandle
}

func newInterfaceDriver(h linkHandle) *interfaceDriver { return &interfaceDriver{h: h} }

func (d *interfaceDriver) Observe(_ context.Context) ([]InterfaceObservation, error) {
	links, err := d.h.LinkList()
	if err != nil {
		return nil, reconcileErr("Observe", "interface", err)
	}
	var out []InterfaceObservation
	for _, l := range links {
		switch l.Type() {
		case "vrf", "bridge", "vxlan":
			continue // owned by their own driver
		}
		attrs := l.Attrs()
		out = append(out, InterfaceObservation{
			name:    attrs.Name,
			ifindex: attrs.Index,
			mtu:     attrs.MTU,
			up:      attrs.OperState == netlink.OperUp,
		})
	}
	return out, nil
}

func (d *interfaceDriver) Create(_ context.Context, name string, _ InterfaceSpec) error {
	return reconcileErr("Create", name, ErrInterfaceNotCreatable)
}

func (d *interfaceDriver) Update(_ context.Context, req InterfaceSpec, obs InterfaceObservation) error {
	link, err := d.h.LinkByName(obs.name)
	if err != nil {
		return reconcileErr("Update", obs.name, err)
	}
	if req.Mtu != 0 && req.Mtu != obs.mtu {
		if err := d.h.LinkSetMTU(link, req.Mtu); err != nil {
			return reconcileErr("Update", obs.name, err)
		}
	}
	if req.Up != obs.up {
		if req.Up {
			return reconcileErr("Update", obs.name, d.h.LinkSetUp(link))
		}
		return reconcileErr("Update", obs.name, d.h.LinkSetDown(link))
	}
	return nil
}

func (d *interfaceDriver) Remove(_ context.Context, obs InterfaceObservation) error {
	return reconcileErr("Remove", obs.name, ErrInterfaceNotCreatable)
}
