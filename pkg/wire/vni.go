package wire

import "fmt"

// Vni is a 24-bit VXLAN Network Identifier, 1-(2^24-1) inclusive (0 is
// reserved).
type Vni uint32

const maxVni = 1<<24 - 1

// NewVni validates v and returns a Vni.
func NewVni(v uint32) (Vni, error) {
	if v < 1 || v > maxVni {
		return 0, invalid("Vni", fmt.Sprintf("%d", v), ErrVniOutOfRange)
	}
	return Vni(v), nil
}

func (v Vni) Uint32() uint32 { return uint32(v) }
func (v Vni) String() string { return fmt.Sprintf("%d", uint32(v)) }
