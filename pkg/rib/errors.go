package rib

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by RIB operations.
var (
	ErrNhopCycle = errors.New("next-hop resolver cycle")
	ErrVrfExists = errors.New("vrf already exists")
	ErrNoSuchVrf = errors.New("no such vrf")
	ErrVniInUse  = errors.New("vni already in use by another vrf")
)

// CycleError reports that adding a resolver edge would close a cycle in
// the next-hop DAG.
type CycleError struct {
	From, To NhopKey
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("next-hop %+v cannot resolve through %+v: would form a cycle", e.From, e.To)
}
func (e *CycleError) Unwrap() error { return ErrNhopCycle }

func errCycle(from, to *Nhop) error {
	return &CycleError{From: from.Key, To: to.Key}
}

// VrfExistsError reports that a VRF id collides with one already live.
type VrfExistsError struct{ Id uint32 }

func (e *VrfExistsError) Error() string { return fmt.Sprintf("vrf %d already exists", e.Id) }
func (e *VrfExistsError) Unwrap() error { return ErrVrfExists }

// NoSuchVrfError reports an operation against an unknown VRF id.
type NoSuchVrfError struct{ Id uint32 }

func (e *NoSuchVrfError) Error() string { return fmt.Sprintf("no such vrf: %d", e.Id) }
func (e *NoSuchVrfError) Unwrap() error { return ErrNoSuchVrf }

// VniInUseError reports a VNI collision across VRFs.
type VniInUseError struct{ Vni uint32 }

func (e *VniInUseError) Error() string { return fmt.Sprintf("vni %d already in use", e.Vni) }
func (e *VniInUseError) Unwrap() error { return ErrVniInUse }
