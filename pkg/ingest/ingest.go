package ingest

import (
	"errors"
	"net"

	"github.com/fabricgw/gwdataplane/pkg/rib"
	"github.com/fabricgw/gwdataplane/pkg/util"
)

const maxDatagramSize = 65536

// Ribs resolves a VRF id to the RIB the ingester mutates. The ingester
// owns no VRF lifecycle of its own; VRF creation/deletion flows through
// the configuration processor (pkg/actor), not this socket.
type Ribs interface {
	Rib(vrfId uint32) (*rib.Rib, bool)
	All() []*rib.Rib
	Vtep() rib.VtepRecord

	// HaveConfig reports whether the configuration processor has ever
	// promoted a generation. Before the first one, additions are
	// silently ignored rather than failed, since nothing has claimed
	// the VRFs they'd target yet; deletions still proceed so stale
	// state left over from a previous run can be wiped out.
	HaveConfig() bool
}

// Ingester is the single-threaded route-ingester actor: it owns the Unix
// datagram socket and is the only writer of the RIBs it is given.
type Ingester struct {
	conn      *net.UnixConn
	ribs      Ribs
	connected bool
}

// New wraps an already-bound Unix datagram connection. Listen is
// typically used instead; the package tests call New with a nil
// connection and feed datagrams to handle directly.
func New(conn *net.UnixConn, ribs Ribs) *Ingester {
	return &Ingester{conn: conn, ribs: ribs}
}

// Listen binds a Unix datagram socket at path and returns an Ingester
// reading from it.
func Listen(path string, ribs Ribs) (*Ingester, error) {
	addr := &net.UnixAddr{Name: path, Net: "unixgram"}
	conn, err := net.ListenUnixgram("unixgram", addr)
	if err != nil {
		return nil, err
	}
	return New(conn, ribs), nil
}

// Serve reads and handles datagrams until the connection is closed. It
// is intended to run on the single dedicated ingester goroutine
// described in spec.md §5; no other goroutine may call into ribs.
func (ing *Ingester) Serve() error {
	buf := make([]byte, maxDatagramSize)
	for {
		n, addr, err := ing.conn.ReadFromUnix(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		resp := ing.handle(buf[:n])
		if addr != nil {
			_, _ = ing.conn.WriteToUnix(resp.Encode(), addr)
		}
	}
}

// Close closes the underlying socket, causing Serve to return.
func (ing *Ingester) Close() error { return ing.conn.Close() }

// handle decodes one datagram and applies it, producing the Response to
// send back. It never panics on malformed input: decode errors and
// unknown message kinds both answer ResultInvalidRequest.
func (ing *Ingester) handle(buf []byte) Response {
	msg, err := Decode(buf)
	if err != nil {
		util.WithField("component", "ingest").WithError(err).Warn("rejecting malformed datagram")
		var unk *UnknownMessageError
		if errors.As(err, &unk) {
			return Response{Op: unk.Kind, Result: ResultInvalidRequest, Detail: err.Error()}
		}
		return Response{Result: ResultInvalidRequest, Detail: err.Error()}
	}

	switch m := msg.(type) {
	case Connect:
		return ing.handleConnect(m)
	case AddRoute:
		return ing.handleAddRoute(m)
	case DelRoute:
		return ing.handleDelRoute(m)
	case AddRouterMac:
		return ing.handleAddRouterMac(m)
	case DelRouterMac:
		return ing.handleDelRouterMac(m)
	case AddInterfaceAddress:
		return ing.handleAddInterfaceAddress(m)
	case DelInterfaceAddress:
		return ing.handleDelInterfaceAddress(m)
	default:
		return Response{Result: ResultInvalidRequest, Detail: "unexpected message on this socket"}
	}
}

func (ing *Ingester) handleConnect(m Connect) Response {
	if m.Version.Major != CurrentProtocolVersion.Major {
		err := &ProtocolMismatchError{Got: m.Version, Want: CurrentProtocolVersion}
		util.WithField("component", "ingest").Warn(err.Error())
		return Response{Header: Header{Seq: m.Seq}, Op: MsgConnect, Result: ResultInvalidRequest, Detail: err.Error()}
	}
	ing.connected = true
	return Response{Header: Header{Seq: m.Seq}, Op: MsgConnect, Result: ResultOk}
}

func (ing *Ingester) requireConnected(seq uint64, op MsgKind) (Response, bool) {
	if ing.connected {
		return Response{}, true
	}
	return Response{Header: Header{Seq: seq}, Op: op, Result: ResultInvalidRequest, Detail: "Connect required before any other request"}, false
}

// requireConfig reports whether an addition should proceed. Before any
// generation has been applied there are no VRFs for an addition to
// target, so it is ignored (answered Ok) rather than failed; once a
// config exists, the caller proceeds to its normal VRF lookup.
func (ing *Ingester) requireConfig(seq uint64, op MsgKind) (Response, bool) {
	if ing.ribs.HaveConfig() {
		return Response{}, true
	}
	return Response{Header: Header{Seq: seq}, Op: op, Result: ResultOk, Detail: "ignored: no configuration has been applied yet"}, false
}

func (ing *Ingester) handleAddRoute(m AddRoute) Response {
	if resp, ok := ing.requireConnected(m.Seq, MsgAddRoute); !ok {
		return resp
	}
	if resp, ok := ing.requireConfig(m.Seq, MsgAddRoute); !ok {
		return resp
	}
	r, ok := ing.ribs.Rib(m.VrfId)
	if !ok {
		return Response{Header: Header{Seq: m.Seq}, Op: MsgAddRoute, Result: ResultFailure, Detail: (&rib.NoSuchVrfError{Id: m.VrfId}).Error()}
	}

	nexthops := make([]*rib.Nhop, 0, len(m.NextHops))
	for _, nh := range m.NextHops {
		key := rib.NhopKey{Address: nh.Address, Ifindex: nh.Ifindex, Encap: nh.Encap, Action: nh.Action}
		nexthops = append(nexthops, r.Nhops.Intern(key))
	}
	route := &rib.Route{Origin: m.Origin, Distance: m.Distance, Metric: m.Metric, NextHops: nexthops}
	r.AddRoute(m.Prefix, route, ing.ribs.Vtep())
	return Response{Header: Header{Seq: m.Seq}, Op: MsgAddRoute, Result: ResultOk}
}

func (ing *Ingester) handleDelRoute(m DelRoute) Response {
	if resp, ok := ing.requireConnected(m.Seq, MsgDelRoute); !ok {
		return resp
	}
	r, ok := ing.ribs.Rib(m.VrfId)
	if !ok {
		// Unlike an addition, a deletion for a VRF we don't know about
		// is not itself an error: before any config exists there is
		// nothing to have deleted, so tell the caller all is well
		// rather than failing a request to remove state that was
		// never there.
		if !ing.ribs.HaveConfig() {
			return Response{Header: Header{Seq: m.Seq}, Op: MsgDelRoute, Result: ResultOk}
		}
		return Response{Header: Header{Seq: m.Seq}, Op: MsgDelRoute, Result: ResultFailure, Detail: (&rib.NoSuchVrfError{Id: m.VrfId}).Error()}
	}
	r.DelRoute(m.Prefix, m.Origin, ing.ribs.Vtep())
	return Response{Header: Header{Seq: m.Seq}, Op: MsgDelRoute, Result: ResultOk}
}

// Router-MAC and adjacency entries are global state, not scoped to one
// VRF (spec.md §4.3's "process-wide state"); they are pushed into every
// VRF's store since each Rib owns its own RouterMacStore/AdjacencyTable
// instance rather than sharing one singleton.

func (ing *Ingester) handleAddRouterMac(m AddRouterMac) Response {
	if resp, ok := ing.requireConnected(m.Seq, MsgAddRouterMac); !ok {
		return resp
	}
	if resp, ok := ing.requireConfig(m.Seq, MsgAddRouterMac); !ok {
		return resp
	}
	for _, r := range ing.ribs.All() {
		r.RtrMacs.Set(m.Vni, m.Remote, m.Mac)
	}
	return Response{Header: Header{Seq: m.Seq}, Op: MsgAddRouterMac, Result: ResultOk}
}

func (ing *Ingester) handleDelRouterMac(m DelRouterMac) Response {
	if resp, ok := ing.requireConnected(m.Seq, MsgDelRouterMac); !ok {
		return resp
	}
	for _, r := range ing.ribs.All() {
		r.RtrMacs.Delete(m.Vni, m.Remote)
	}
	return Response{Header: Header{Seq: m.Seq}, Op: MsgDelRouterMac, Result: ResultOk}
}

func (ing *Ingester) handleAddInterfaceAddress(m AddInterfaceAddress) Response {
	if resp, ok := ing.requireConnected(m.Seq, MsgAddInterfaceAddress); !ok {
		return resp
	}
	if resp, ok := ing.requireConfig(m.Seq, MsgAddInterfaceAddress); !ok {
		return resp
	}
	for _, r := range ing.ribs.All() {
		r.Adj.Set(m.Address, m.Ifindex, m.Mac)
	}
	return Response{Header: Header{Seq: m.Seq}, Op: MsgAddInterfaceAddress, Result: ResultOk}
}

func (ing *Ingester) handleDelInterfaceAddress(m DelInterfaceAddress) Response {
	if resp, ok := ing.requireConnected(m.Seq, MsgDelInterfaceAddress); !ok {
		return resp
	}
	for _, r := range ing.ribs.All() {
		r.Adj.Delete(m.Address, m.Ifindex)
	}
	return Response{Header: Header{Seq: m.Seq}, Op: MsgDelInterfaceAddress, Result: ResultOk}
}
