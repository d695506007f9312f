package netstate

import (
	"context"
	"net/netip"

	"github.com/vishvananda/netlink"
)

// VtepObservation is the live state of one VXLAN tunnel endpoint link.
type VtepObservation struct {
	name        string
	ifindex     int
	masterIndex int
	vni         uint32
	localAddr   netip.Addr
}

func (o VtepObservation) Name() string  { return o.name }
func (o VtepObservation) IsOther() bool { return false }
func (o VtepObservation) AsRequirement() VtepSpec {
	return VtepSpec{Vni: o.vni, LocalAddr: o.localAddr, MasterIndex: o.masterIndex}
}

type vtepDriver struct {
	h linkHandle
}

func newVtepDriver(h linkHandle) *vtepDriver { return &vtepDriver{h: h} }

func (d *vtepDriver) Observe(_ context.Context) ([]VtepObservation, error) {
	links, err := d.h.LinkList()
	if err != nil {
		return nil, reconcileErr("Observe", "vtep", err)
	}
	var out []VtepObservation
	for _, l := range links {
		vx, ok := l.(*netlink.Vxlan)
		if !ok {
			continue
		}
		addr, _ := netip.AddrFromSlice(vx.SrcAddr)
		out = append(out, VtepObservation{
			name:        vx.Attrs().Name,
			ifindex:     vx.Attrs().Index,
			masterIndex: vx.Attrs().MasterIndex,
			vni:         uint32(vx.VxlanId),
			localAddr:   addr,
		})
	}
	return out, nil
}

func (d *vtepDriver) Create(_ context.Context, name string, req VtepSpec) error {
	link := &netlink.Vxlan{
		LinkAttrs: netlink.LinkAttrs{Name: name},
		VxlanId:   int(req.Vni),
		SrcAddr:   req.LocalAddr.AsSlice(),
		Learning:  false,
		Port:      4789,
	}
	if err := d.h.LinkAdd(link); err != nil {
		return reconcileErr("Create", name, err)
	}
	if err := d.h.LinkSetUp(link); err != nil {
		return reconcileErr("Create", name, err)
	}
	if req.MasterIndex != 0 {
		if err := d.h.LinkSetMasterByIndex(link, req.MasterIndex); err != nil {
			return reconcileErr("Create", name, err)
		}
	}
	return nil
}

// Update handles the master (bridge enslavement) change in place; a VNI or
// local-address change requires recreating the device, since the kernel
// VXLAN driver treats both as immutable.
func (d *vtepDriver) Update(ctx context.Context, req VtepSpec, obs VtepObservation) error {
	if req.Vni != obs.vni || req.LocalAddr != obs.localAddr {
		if err := d.Remove(ctx, obs); err != nil {
			return err
		}
		return d.Create(ctx, obs.name, req)
	}
	if req.MasterIndex == obs.masterIndex {
		return nil
	}
	link, err := d.h.LinkByName(obs.name)
	if err != nil {
		return reconcileErr("Update", obs.name, err)
	}
	if req.MasterIndex == 0 {
		return reconcileErr("Update", obs.name, d.h.LinkSetNoMaster(link))
	}
	return reconcileErr("Update", obs.name, d.h.LinkSetMasterByIndex(link, req.MasterIndex))
}

func (d *vtepDriver) Remove(_ context.Context, obs VtepObservation) error {
	link, err := d.h.LinkByName(obs.name)
	if err != nil {
		return reconcileErr("Remove", obs.name, err)
	}
	if err := d.h.LinkSetDown(link); err != nil {
		return reconcileErr("Remove", obs.name, err)
	}
	return reconcileErr("Remove", obs.name, d.h.LinkDel(link))
}
