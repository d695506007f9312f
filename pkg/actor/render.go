package actor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fabricgw/gwdataplane/pkg/gwconfig"
)

// renderFrr renders a compiled configuration into FRR's text
// configuration format (§4.6 Apply step 7's "rendered payload"): a VRF
// stanza per VPC, import/export prefix-lists plus neighbor route-map
// references per peering's BGP policy (no route-map stanzas are
// emitted), and static blackhole routes for a VPC's excluded prefixes.
func renderFrr(cc *gwconfig.CompiledConfig) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "! generation %d\n", cc.Generation)

	vrfNames := make([]string, 0, len(cc.Vrfs))
	for _, vrf := range cc.Vrfs {
		vrfNames = append(vrfNames, vrf.Name)
	}
	sort.Strings(vrfNames)

	vrfByName := make(map[string]int, len(cc.Vrfs))
	for i, vrf := range cc.Vrfs {
		vrfByName[vrf.Name] = i
	}

	for _, name := range vrfNames {
		vrf := cc.Vrfs[vrfByName[name]]
		fmt.Fprintf(&b, "vrf %s\n", vrf.Name)
		fmt.Fprintf(&b, " ip table %d\n", vrf.TableId.Uint32())
		if vrf.Vni != nil {
			fmt.Fprintf(&b, " vni %d\n", vrf.Vni.Uint32())
		}
		b.WriteString("exit-vrf\n")
	}

	for vpcName, drops := range cc.DropRoutes {
		for _, p := range drops {
			fmt.Fprintf(&b, "ip route %s blackhole vrf Vrf_%s\n", p, vpcName)
		}
	}

	policyNames := make([]string, len(cc.BgpPolicies))
	policyByName := make(map[string]int, len(cc.BgpPolicies))
	for i, p := range cc.BgpPolicies {
		n := fmt.Sprintf("%s-%s", p.VpcName, p.Remote)
		policyNames[i] = n
		policyByName[n] = i
	}
	sort.Strings(policyNames)

	for _, name := range policyNames {
		p := cc.BgpPolicies[policyByName[name]]
		importList := fmt.Sprintf("IMPORT-%s", name)
		exportList := fmt.Sprintf("EXPORT-%s", name)

		for _, prefix := range p.ImportPrefixes {
			fmt.Fprintf(&b, "ip prefix-list %s permit %s\n", importList, prefix)
		}
		for _, prefix := range p.ExportPrefixes {
			fmt.Fprintf(&b, "ip prefix-list %s permit %s\n", exportList, prefix)
		}

		fmt.Fprintf(&b, "router bgp vrf %s\n", p.VpcName)
		fmt.Fprintf(&b, " address-family ipv4 unicast\n")
		fmt.Fprintf(&b, "  neighbor %s route-map %s in\n", p.Remote, importList)
		fmt.Fprintf(&b, "  neighbor %s route-map %s out\n", p.Remote, exportList)
		b.WriteString(" exit-address-family\n")
		b.WriteString("exit\n")
	}

	return []byte(b.String())
}
