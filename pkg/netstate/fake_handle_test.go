package netstate

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// fakeHandle is an in-memory linkHandle standing in for a real netns, so
// the reconciler's decision logic can be tested without CAP_NET_ADMIN.
type fakeHandle struct {
	links   map[string]netlink.Link
	nextIdx int
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{links: map[string]netlink.Link{}, nextIdx: 1}
}

func (h *fakeHandle) LinkList() ([]netlink.Link, error) {
	out := make([]netlink.Link, 0, len(h.links))
	for _, l := range h.links {
		out = append(out, l)
	}
	return out, nil
}

func (h *fakeHandle) LinkByName(name string) (netlink.Link, error) {
	l, ok := h.links[name]
	if !ok {
		return nil, fmt.Errorf("fakeHandle: link %q not found", name)
	}
	return l, nil
}

func (h *fakeHandle) LinkAdd(link netlink.Link) error {
	attrs := link.Attrs()
	if _, exists := h.links[attrs.Name]; exists {
		return fmt.Errorf("fakeHandle: link %q exists", attrs.Name)
	}
	attrs.Index = h.nextIdx
	h.nextIdx++
	h.links[attrs.Name] = link
	return nil
}

func (h *fakeHandle) LinkDel(link netlink.Link) error {
	delete(h.links, link.Attrs().Name)
	return nil
}

func (h *fakeHandle) LinkSetUp(link netlink.Link) error {
	link.Attrs().OperState = netlink.OperUp
	return nil
}

func (h *fakeHandle) LinkSetDown(link netlink.Link) error {
	link.Attrs().OperState = netlink.OperDown
	return nil
}

func (h *fakeHandle) LinkSetMTU(link netlink.Link, mtu int) error {
	link.Attrs().MTU = mtu
	return nil
}

func (h *fakeHandle) LinkSetMasterByIndex(link netlink.Link, masterIndex int) error {
	link.Attrs().MasterIndex = masterIndex
	return nil
}

func (h *fakeHandle) LinkSetNoMaster(link netlink.Link) error {
	link.Attrs().MasterIndex = 0
	return nil
}
