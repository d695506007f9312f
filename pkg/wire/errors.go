// Package wire defines strong newtypes for every wire-level value the
// dataplane exchanges: MAC/VLAN/VNI/port identifiers, IP prefixes and
// addresses, PCI addresses, interface indices and route table ids. Every
// type validates its invariants at construction so that an invalid value
// can never exist at rest.
package wire

import "errors"

// Sentinel errors for newtype construction failures.
var (
	ErrZeroMac          = errors.New("mac address is all-zero")
	ErrMulticastMac      = errors.New("mac address is multicast")
	ErrMalformedMac      = errors.New("mac address syntax invalid")
	ErrVidOutOfRange     = errors.New("vlan id out of range (1-4094)")
	ErrVniOutOfRange     = errors.New("vni out of range (1-16777215)")
	ErrZeroPort          = errors.New("port must be non-zero")
	ErrBadPrefixLen      = errors.New("prefix length out of range for address family")
	ErrHostBitsSet       = errors.New("prefix has non-zero bits outside the mask")
	ErrNotUnicast        = errors.New("address is not unicast")
	ErrBadPciAddress     = errors.New("pci address syntax invalid")
	ErrZeroIfindex       = errors.New("interface index must be non-zero")
	ErrZeroRouteTableID  = errors.New("route table id must be non-zero")
	ErrReservedRouteTable = errors.New("route table id is reserved")
)

// InvalidError wraps a construction failure with the offending value and
// field, giving callers a uniform way to report bad wire values.
type InvalidError struct {
	Type  string
	Value string
	Err   error
}

func (e *InvalidError) Error() string {
	return e.Type + " " + e.Value + ": " + e.Err.Error()
}

func (e *InvalidError) Unwrap() error { return e.Err }

func invalid(typ, value string, err error) error {
	return &InvalidError{Type: typ, Value: value, Err: err}
}
