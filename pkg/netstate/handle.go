package netstate

import "github.com/vishvananda/netlink"

// linkHandle is the subset of the vishvananda/netlink package surface the
// reconciler needs. It exists so tests can substitute a fake kernel without
// CAP_NET_ADMIN or a real netns, mirroring the teacher's sonic.Device
// abstraction over a real SONiC connection.
type linkHandle interface {
	LinkList() ([]netlink.Link, error)
	LinkByName(name string) (netlink.Link, error)
	LinkAdd(link netlink.Link) error
	LinkDel(link netlink.Link) error
	LinkSetUp(link netlink.Link) error
	LinkSetDown(link netlink.Link) error
	LinkSetMTU(link netlink.Link, mtu int) error
	LinkSetMasterByIndex(link netlink.Link, masterIndex int) error
	LinkSetNoMaster(link netlink.Link) error
}

// kernelHandle implements linkHandle by delegating to the real
// vishvananda/netlink package-level functions against the host's default
// network namespace.
type kernelHandle struct{}

func (kernelHandle) LinkList() ([]netlink.Link, error)     { return netlink.LinkList() }
func (kernelHandle) LinkByName(name string) (netlink.Link, error) { return netlink.LinkByName(name) }
func (kernelHandle) LinkAdd(link netlink.Link) error        { return netlink.LinkAdd(link) }
func (kernelHandle) LinkDel(link netlink.Link) error        { return netlink.LinkDel(link) }
func (kernelHandle) LinkSetUp(link netlink.Link) error      { return netlink.LinkSetUp(link) }
func (kernelHandle) LinkSetDown(link netlink.Link) error    { return netlink.LinkSetDown(link) }
func (kernelHandle) LinkSetMTU(link netlink.Link, mtu int) error {
	return netlink.LinkSetMTU(link, mtu)
}
func (kernelHandle) LinkSetMasterByIndex(link netlink.Link, masterIndex int) error {
	return netlink.LinkSetMasterByIndex(link, masterIndex)
}
func (kernelHandle) LinkSetNoMaster(link netlink.Link) error {
	return netlink.LinkSetNoMaster(link)
}
