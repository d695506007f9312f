package netstate

import (
	"context"

	"github.com/vishvananda/netlink"
)

// VrfObservation is the live state of one VRF link.
type VrfObservation struct {
	name    string
	ifindex int
	tableId uint32
}

func (o VrfObservation) Name() string           { return o.name }
func (o VrfObservation) IsOther() bool          { return false }
func (o VrfObservation) AsRequirement() VrfSpec { return VrfSpec{TableId: o.tableId} }

// Ifindex returns the kernel interface index, consulted when resolving a
// bridge→VRF AssociationSpec.
func (o VrfObservation) Ifindex() int { return o.ifindex }

// vrfDriver implements reconcile.Driver[VrfSpec, VrfObservation] over
// netlink VRF links.
type vrfDriver struct {
	h linkHandle
}

func newVrfDriver(h linkHandle) *vrfDriver { return &vrfDriver{h: h} }

func (d *vrfDriver) Observe(_ context.Context) ([]VrfObservation, error) {
	links, err := d.h.LinkList()
	if err != nil {
		return nil, reconcileErr("Observe", "vrf", err)
	}
	var out []VrfObservation
	for _, l := range links {
		vrf, ok := l.(*netlink.Vrf)
		if !ok {
			continue
		}
		out = append(out, VrfObservation{
			name:    vrf.Attrs().Name,
			ifindex: vrf.Attrs().Index,
			tableId: vrf.Table,
		})
	}
	return out, nil
}

func (d *vrfDriver) Create(_ context.Context, name string, req VrfSpec) error {
	link := &netlink.Vrf{
		LinkAttrs: netlink.LinkAttrs{Name: name},
		Table:     req.TableId,
	}
	if err := d.h.LinkAdd(link); err != nil {
		return reconcileErr("Create", name, err)
	}
	if err := d.h.LinkSetUp(link); err != nil {
		return reconcileErr("Create", name, err)
	}
	return nil
}

// Update recreates the VRF when its table id changed: a VRF's routing
// table is immutable once the device exists, so there is no in-place
// mutation to issue.
func (d *vrfDriver) Update(ctx context.Context, req VrfSpec, obs VrfObservation) error {
	if req.TableId == obs.tableId {
		return nil
	}
	if err := d.Remove(ctx, obs); err != nil {
		return err
	}
	return d.Create(ctx, obs.name, req)
}

func (d *vrfDriver) Remove(_ context.Context, obs VrfObservation) error {
	link, err := d.h.LinkByName(obs.name)
	if err != nil {
		return reconcileErr("Remove", obs.name, err)
	}
	if err := d.h.LinkSetDown(link); err != nil {
		return reconcileErr("Remove", obs.name, err)
	}
	if err := d.h.LinkDel(link); err != nil {
		return reconcileErr("Remove", obs.name, err)
	}
	return nil
}
