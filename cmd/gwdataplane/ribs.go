package main

import (
	"sync"

	"github.com/fabricgw/gwdataplane/pkg/gwconfig"
	"github.com/fabricgw/gwdataplane/pkg/rib"
)

// ribSet is the route-ingester's view onto the VRF RIBs currently live,
// kept in step with every promoted generation via Actor.OnApply. A VRF
// whose table id survives a reapply keeps its live routes; one that
// disappears from the compiled config is dropped.
type ribSet struct {
	mu         sync.RWMutex
	ribs       map[uint32]*rib.Rib
	vtep       rib.VtepRecord
	haveConfig bool
}

func newRibSet() *ribSet {
	return &ribSet{ribs: make(map[uint32]*rib.Rib)}
}

func (s *ribSet) Rib(vrfId uint32) (*rib.Rib, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.ribs[vrfId]
	return r, ok
}

func (s *ribSet) All() []*rib.Rib {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*rib.Rib, 0, len(s.ribs))
	for _, r := range s.ribs {
		out = append(out, r)
	}
	return out
}

func (s *ribSet) Vtep() rib.VtepRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vtep
}

// HaveConfig reports whether sync has ever run, i.e. whether the
// configuration processor has promoted at least one generation.
func (s *ribSet) HaveConfig() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.haveConfig
}

// sync rebuilds the table-id set from cc, preserving any existing Rib
// whose table id is still wanted.
func (s *ribSet) sync(cc *gwconfig.CompiledConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[uint32]*rib.Rib, len(cc.Vrfs))
	for _, vrf := range cc.Vrfs {
		tableId := vrf.TableId.Uint32()
		if existing, ok := s.ribs[tableId]; ok {
			next[tableId] = existing
			continue
		}
		next[tableId] = rib.NewRib(vrf.TableId)
	}
	s.ribs = next
	s.vtep = cc.Vtep
	s.haveConfig = true
}
