package actor

import (
	"fmt"

	"github.com/fabricgw/gwdataplane/pkg/gwconfig"
	"github.com/fabricgw/gwdataplane/pkg/netstate"
)

// toRequiredInformationBase projects a compiled configuration onto the
// kernel resources the reconciler drives toward: one VRF per VPC, one
// bridge and one VXLAN tunnel endpoint terminating that VPC's VNI,
// enslaved controller-before-child (bridge under VRF, VTEP under
// bridge).
func toRequiredInformationBase(cc *gwconfig.CompiledConfig) netstate.RequiredInformationBase {
	rib := netstate.RequiredInformationBase{
		Vrfs:    make(map[string]netstate.VrfSpec, len(cc.Vrfs)),
		Bridges: make(map[string]netstate.BridgeSpec),
		Vteps:   make(map[string]netstate.VtepSpec),
	}

	for _, vrf := range cc.Vrfs {
		rib.Vrfs[vrf.Name] = netstate.VrfSpec{TableId: vrf.TableId.Uint32()}

		if vrf.Vni == nil {
			continue
		}

		bridgeName := fmt.Sprintf("Br_%s", vrf.Name)
		vtepName := fmt.Sprintf("Vtep_%s", vrf.Name)

		rib.Bridges[bridgeName] = netstate.BridgeSpec{VlanFiltering: false}
		rib.Vteps[vtepName] = netstate.VtepSpec{
			Vni:       vrf.Vni.Uint32(),
			LocalAddr: cc.Vtep.LocalIp,
		}

		rib.Associations = append(rib.Associations,
			netstate.AssociationSpec{Kind: netstate.AssociationBridge, Child: bridgeName, Controller: vrf.Name},
			netstate.AssociationSpec{Kind: netstate.AssociationVtep, Child: vtepName, Controller: bridgeName},
		)
	}

	return rib
}
