package rib

import (
	"net/netip"
	"sync"

	"github.com/fabricgw/gwdataplane/pkg/wire"
)

type adjacencyKey struct {
	addr    netip.Addr
	ifindex wire.InterfaceIndex
}

// AdjacencyTable maps (IP, ifindex) to the destination MAC learned for
// that on-link neighbor.
type AdjacencyTable struct {
	mu      sync.RWMutex
	entries map[adjacencyKey]wire.Mac
}

// NewAdjacencyTable returns an empty table.
func NewAdjacencyTable() *AdjacencyTable {
	return &AdjacencyTable{entries: make(map[adjacencyKey]wire.Mac)}
}

// Set records the MAC for (addr, ifindex).
func (a *AdjacencyTable) Set(addr netip.Addr, ifindex wire.InterfaceIndex, mac wire.Mac) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[adjacencyKey{addr, ifindex}] = mac
}

// Delete removes the entry for (addr, ifindex).
func (a *AdjacencyTable) Delete(addr netip.Addr, ifindex wire.InterfaceIndex) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.entries, adjacencyKey{addr, ifindex})
}

// Lookup returns the MAC for (addr, ifindex), if known.
func (a *AdjacencyTable) Lookup(addr netip.Addr, ifindex wire.InterfaceIndex) (wire.Mac, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	mac, ok := a.entries[adjacencyKey{addr, ifindex}]
	return mac, ok
}

type routerMacKey struct {
	vni    wire.Vni
	remote netip.Addr
}

// RouterMacStore maps (VNI, remote-VTEP-IP) to the inner destination MAC
// used when encapsulating traffic toward that remote VTEP.
type RouterMacStore struct {
	mu      sync.RWMutex
	entries map[routerMacKey]wire.Mac
}

// NewRouterMacStore returns an empty store.
func NewRouterMacStore() *RouterMacStore {
	return &RouterMacStore{entries: make(map[routerMacKey]wire.Mac)}
}

// Set records the router MAC for (vni, remote).
func (s *RouterMacStore) Set(vni wire.Vni, remote netip.Addr, mac wire.Mac) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[routerMacKey{vni, remote}] = mac
}

// Delete removes the entry for (vni, remote).
func (s *RouterMacStore) Delete(vni wire.Vni, remote netip.Addr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, routerMacKey{vni, remote})
}

// Lookup returns the router MAC for (vni, remote), if known.
func (s *RouterMacStore) Lookup(vni wire.Vni, remote netip.Addr) (wire.Mac, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mac, ok := s.entries[routerMacKey{vni, remote}]
	return mac, ok
}

// VtepRecord is the process-wide local VTEP identity resolution fills
// into a VXLAN encapsulation's source MAC and local IP fields.
type VtepRecord struct {
	LocalIp netip.Addr
	SrcMac  wire.Mac
}
