package wire

import (
	"fmt"
	"net"
)

// Mac is a 6-byte Ethernet hardware address.
type Mac [6]byte

// NewMac copies b into a Mac. No invariant beyond length, which the type
// itself enforces at compile time.
func NewMac(b [6]byte) Mac { return Mac(b) }

func (m Mac) isZero() bool {
	return m == Mac{}
}

// IsMulticast reports whether the I/G bit (bit 0 of the first octet) is set.
func (m Mac) IsMulticast() bool { return m[0]&0x01 != 0 }

// IsBroadcast reports whether m is the all-ones broadcast address.
func (m Mac) IsBroadcast() bool { return m == Mac{0xff, 0xff, 0xff, 0xff, 0xff, 0xff} }

func (m Mac) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// ParseMac parses the colon- or hyphen-separated hex form of a hardware
// address, the form external config documents carry.
func ParseMac(s string) (Mac, error) {
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return Mac{}, invalid("Mac", s, ErrMalformedMac)
	}
	var m Mac
	copy(m[:], hw)
	return m, nil
}

// SourceMac is a Mac valid as a frame's source address: not multicast, not
// all-zero.
type SourceMac struct{ mac Mac }

// NewSourceMac validates m and wraps it as a SourceMac.
func NewSourceMac(m Mac) (SourceMac, error) {
	if m.isZero() {
		return SourceMac{}, invalid("SourceMac", m.String(), ErrZeroMac)
	}
	if m.IsMulticast() {
		return SourceMac{}, invalid("SourceMac", m.String(), ErrMulticastMac)
	}
	return SourceMac{mac: m}, nil
}

// Mac returns the underlying address.
func (s SourceMac) Mac() Mac       { return s.mac }
func (s SourceMac) String() string { return s.mac.String() }

// DestinationMac is a Mac valid as a frame's destination address: not
// all-zero (multicast/broadcast are permitted destinations).
type DestinationMac struct{ mac Mac }

// NewDestinationMac validates m and wraps it as a DestinationMac.
func NewDestinationMac(m Mac) (DestinationMac, error) {
	if m.isZero() {
		return DestinationMac{}, invalid("DestinationMac", m.String(), ErrZeroMac)
	}
	return DestinationMac{mac: m}, nil
}

// Mac returns the underlying address.
func (d DestinationMac) Mac() Mac       { return d.mac }
func (d DestinationMac) String() string { return d.mac.String() }
