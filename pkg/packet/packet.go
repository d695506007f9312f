// Package packet defines the per-packet data carried through the pipeline:
// the raw buffer, its parsed headers, and the metadata stages attach as they
// run. Non-goal: pipeline composition/scheduling machinery (§4 Non-goals) —
// only the data a stage reads and writes is defined here.
package packet

import (
	"net/netip"

	"github.com/fabricgw/gwdataplane/pkg/headers"
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// DoneReason records why a pipeline stopped processing a packet short of
// forwarding it.
type DoneReason int

const (
	DoneNone DoneReason = iota
	DoneNotIP
	DoneInvalidHeader
	DoneDrop
	DoneNoRoute
)

func (r DoneReason) String() string {
	switch r {
	case DoneNotIP:
		return "NotIp"
	case DoneInvalidHeader:
		return "InvalidHeader"
	case DoneDrop:
		return "Drop"
	case DoneNoRoute:
		return "NoRoute"
	default:
		return "None"
	}
}

// Meta carries the per-packet state stages read and mutate: ingress/egress
// interface, VPC/VNI discriminants, forwarding hints, and the "done" latch
// that tells later stages to skip this packet.
type Meta struct {
	IngressIfindex wire.InterfaceIndex
	EgressIfindex  *wire.InterfaceIndex

	SrcVpc wire.Vni
	DstVpc wire.Vni

	SrcVni *wire.Vni
	DstVni *wire.Vni

	Broadcast bool
	Local     bool

	NextHop netip.Addr

	Done DoneReason
	Keep bool
}

// IsDone reports whether a stage has already terminated processing.
func (m *Meta) IsDone() bool { return m.Done != DoneNone }

// MarkDone latches a terminal reason. Subsequent stages must check IsDone
// and skip the packet; MarkDone never overwrites an existing reason.
func (m *Meta) MarkDone(reason DoneReason) {
	if m.Done == DoneNone {
		m.Done = reason
	}
}

// Packet owns a raw buffer plus the headers parsed from it (if any) and its
// pipeline metadata. A Packet is reused across pipeline iterations from a
// driver-owned pool; Reset clears per-iteration state without reallocating
// Buf.
type Packet struct {
	Buf     []byte
	Headers *headers.Headers
	Meta    Meta
}

// New wraps buf in a fresh Packet with no parsed headers.
func New(buf []byte) *Packet {
	return &Packet{Buf: buf}
}

// Reset clears Headers and Meta, keeping the underlying Buf slice (and its
// capacity) for reuse by the driver's buffer pool.
func (p *Packet) Reset() {
	p.Headers = nil
	p.Meta = Meta{}
}

// Stage is the contract a pipeline step implements: mutate p in place,
// returning an error only for conditions the caller cannot recover from
// locally (stage bugs, not packet-shaped failures — those are reported via
// Meta.MarkDone).
type Stage interface {
	Name() string
	Run(p *Packet) error
}
