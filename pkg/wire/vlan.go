package wire

import "fmt"

// Vid is an 802.1Q VLAN identifier, 1-4094 inclusive (0 and 4095 are
// reserved by the standard and rejected here).
type Vid uint16

// NewVid validates v and returns a Vid.
func NewVid(v uint16) (Vid, error) {
	if v < 1 || v > 4094 {
		return 0, invalid("Vid", fmt.Sprintf("%d", v), ErrVidOutOfRange)
	}
	return Vid(v), nil
}

func (v Vid) Uint16() uint16 { return uint16(v) }
func (v Vid) String() string { return fmt.Sprintf("%d", uint16(v)) }
