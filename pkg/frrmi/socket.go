// Package frrmi implements the FRRMI protocol (§4.6/§6): the Unix
// datagram framing the configuration processor uses to push a rendered
// configuration to the routing daemon and to probe its liveness.
//
// A raw golang.org/x/sys/unix SOCK_DGRAM socket is used instead of
// net.UnixConn because the 8 MiB send/receive buffer requirement needs
// direct SO_SNDBUF/SO_RCVBUF access.
package frrmi

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const (
	sendRecvBufBytes = 8 * 1024 * 1024
	// OkReply is the literal success payload the peer answers with.
	OkReply = "Ok"
	// Keepalive is the periodic liveness-probe payload, always sent with
	// generation 0.
	Keepalive = "KEEPALIVE"
)

// socket wraps one bound, buffer-tuned AF_UNIX SOCK_DGRAM file descriptor.
type socket struct {
	fd int
}

func bindSocket(path string) (*socket, error) {
	if path != "" {
		_ = os.Remove(path)
	}
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_DGRAM, 0)
	if err != nil {
		return nil, fmt.Errorf("frrmi: socket: %w", err)
	}
	s := &socket{fd: fd}
	if err := s.tuneBuffers(); err != nil {
		_ = s.Close()
		return nil, err
	}
	if path != "" {
		addr := &unix.SockaddrUnix{Name: path}
		if err := unix.Bind(fd, addr); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("frrmi: bind %s: %w", path, err)
		}
	}
	return s, nil
}

func (s *socket) tuneBuffers() error {
	if err := unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_SNDBUF, sendRecvBufBytes); err != nil {
		return fmt.Errorf("frrmi: SO_SNDBUF: %w", err)
	}
	if err := unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_RCVBUF, sendRecvBufBytes); err != nil {
		return fmt.Errorf("frrmi: SO_RCVBUF: %w", err)
	}
	return nil
}

// setRecvTimeout bounds the next blocking Recvfrom call via SO_RCVTIMEO,
// the raw-socket equivalent of a read deadline.
func (s *socket) setRecvTimeout(seconds, microseconds int64) error {
	tv := unix.Timeval{Sec: seconds, Usec: microseconds}
	return unix.SetsockoptTimeval(s.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv)
}

func (s *socket) sendTo(path string, b []byte) error {
	addr := &unix.SockaddrUnix{Name: path}
	return unix.Sendto(s.fd, b, 0, addr)
}

func (s *socket) recvFrom(buf []byte) (int, string, error) {
	n, from, err := unix.Recvfrom(s.fd, buf, 0)
	if err != nil {
		return 0, "", err
	}
	var fromPath string
	if sa, ok := from.(*unix.SockaddrUnix); ok {
		fromPath = sa.Name
	}
	return n, fromPath, nil
}

func (s *socket) Close() error {
	return unix.Close(s.fd)
}
