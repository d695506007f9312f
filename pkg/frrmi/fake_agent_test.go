package frrmi

import (
	"encoding/binary"
	"sync/atomic"
)

// fakeAgent stands in for the routing daemon's FRRMI peer in tests: it
// answers every request with a fixed reply, recording the last
// generation and payload it saw.
type fakeAgent struct {
	sock *socket
	path string

	reply string

	lastGen     uint64
	lastPayload []byte
	requests    int32
}

func newFakeAgent(path, reply string) (*fakeAgent, error) {
	sock, err := bindSocket(path)
	if err != nil {
		return nil, err
	}
	return &fakeAgent{sock: sock, path: path, reply: reply}, nil
}

// serveOne handles exactly one request: the three datagrams of one
// FRRMI frame, replying to whichever bound path sent the first
// datagram (a Client's local socket is always bound, so recvFrom's
// address is a usable return path for AF_UNIX SOCK_DGRAM).
func (a *fakeAgent) serveOne() error {
	var lenBuf, genBuf [8]byte

	_, from, err := a.sock.recvFrom(lenBuf[:])
	if err != nil {
		return err
	}
	length := binary.LittleEndian.Uint64(lenBuf[:])

	if _, _, err := a.sock.recvFrom(genBuf[:]); err != nil {
		return err
	}
	gen := binary.LittleEndian.Uint64(genBuf[:])

	payload := make([]byte, length)
	if length > 0 {
		if _, _, err := a.sock.recvFrom(payload); err != nil {
			return err
		}
	}

	atomic.AddInt32(&a.requests, 1)
	a.lastGen = gen
	a.lastPayload = payload

	return a.sock.sendTo(from, []byte(a.reply))
}

func (a *fakeAgent) Close() error { return a.sock.Close() }
