package frrmi

import (
	"encoding/binary"
	"fmt"
)

// ApplyTimeoutSeconds is §5's 10 s management-request deadline for a
// routing-daemon reply to an Apply request.
const ApplyTimeoutSeconds = 10

const keepaliveTimeoutSeconds = 3

const maxReplySize = 65536

// Client is the configuration processor's handle onto the FRRMI peer
// socket: one bound local datagram socket with 8 MiB send/receive
// buffers, sending requests to a fixed peer path.
type Client struct {
	sock     *socket
	peerPath string
}

// NewClient binds a local Unix datagram socket at localPath (removing
// any stale socket file first) and targets peerPath for every request.
func NewClient(localPath, peerPath string) (*Client, error) {
	sock, err := bindSocket(localPath)
	if err != nil {
		return nil, err
	}
	return &Client{sock: sock, peerPath: peerPath}, nil
}

// Close releases the underlying socket.
func (c *Client) Close() error { return c.sock.Close() }

// send transmits one FRRMI request as three datagrams (length,
// generation, payload) and waits up to timeoutSeconds for the peer's
// single reply datagram.
func (c *Client) send(gen uint64, payload []byte, timeoutSeconds int64) (ok bool, reply string, err error) {
	var lenBuf, genBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(payload)))
	binary.LittleEndian.PutUint64(genBuf[:], gen)

	if err := c.sock.sendTo(c.peerPath, lenBuf[:]); err != nil {
		return false, "", fmt.Errorf("frrmi: send length: %w", err)
	}
	if err := c.sock.sendTo(c.peerPath, genBuf[:]); err != nil {
		return false, "", fmt.Errorf("frrmi: send generation: %w", err)
	}
	if err := c.sock.sendTo(c.peerPath, payload); err != nil {
		return false, "", fmt.Errorf("frrmi: send payload: %w", err)
	}

	if err := c.sock.setRecvTimeout(timeoutSeconds, 0); err != nil {
		return false, "", err
	}
	buf := make([]byte, maxReplySize)
	n, _, err := c.sock.recvFrom(buf)
	if err != nil {
		return false, "", fmt.Errorf("frrmi: recv reply: %w", err)
	}
	reply = string(buf[:n])
	return reply == OkReply, reply, nil
}

// Apply sends gen's rendered payload and awaits Ok within
// ApplyTimeoutSeconds, the deadline Apply step 7 enforces.
func (c *Client) Apply(gen uint64, payload []byte) error {
	ok, reply, err := c.send(gen, payload, ApplyTimeoutSeconds)
	if err != nil {
		return err
	}
	if !ok {
		return &ReloadError{Reply: reply}
	}
	return nil
}

// Probe sends a KEEPALIVE at generation 0 and reports whether the peer
// answered Ok within a short liveness-probe deadline.
func (c *Client) Probe() bool {
	ok, _, err := c.send(0, []byte(Keepalive), keepaliveTimeoutSeconds)
	return err == nil && ok
}
