package wire

import "fmt"

// InterfaceIndex is a non-zero kernel interface index.
type InterfaceIndex uint32

// NewInterfaceIndex validates v and returns an InterfaceIndex.
func NewInterfaceIndex(v uint32) (InterfaceIndex, error) {
	if v == 0 {
		return 0, invalid("InterfaceIndex", "0", ErrZeroIfindex)
	}
	return InterfaceIndex(v), nil
}

func (i InterfaceIndex) Uint32() uint32 { return uint32(i) }
func (i InterfaceIndex) String() string { return fmt.Sprintf("%d", uint32(i)) }

// reservedRouteTables are route table ids the kernel treats specially and
// that a VRF may never claim (main/default/local, per RFC 1812 / Linux
// rtnetlink conventions).
var reservedRouteTables = map[uint32]bool{
	0:   true, // RT_TABLE_UNSPEC
	253: true, // RT_TABLE_DEFAULT
	254: true, // RT_TABLE_MAIN
	255: true, // RT_TABLE_LOCAL
}

// RouteTableId is a non-zero, non-reserved kernel routing table id.
type RouteTableId uint32

// NewRouteTableId validates v and returns a RouteTableId.
func NewRouteTableId(v uint32) (RouteTableId, error) {
	if v == 0 {
		return 0, invalid("RouteTableId", "0", ErrZeroRouteTableID)
	}
	if reservedRouteTables[v] {
		return 0, invalid("RouteTableId", fmt.Sprintf("%d", v), ErrReservedRouteTable)
	}
	return RouteTableId(v), nil
}

func (r RouteTableId) Uint32() uint32 { return uint32(r) }
func (r RouteTableId) String() string { return fmt.Sprintf("%d", uint32(r)) }
