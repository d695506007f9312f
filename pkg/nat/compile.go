package nat

import (
	"github.com/fabricgw/gwdataplane/pkg/lpm"
	"github.com/fabricgw/gwdataplane/pkg/vpc"
)

// Compile builds v's per-VNI NAT table from its peerings. remoteExposes
// maps a peering's remote VPC name to the manifest R publishes toward V
// (the side of R's peering back at V) — the caller resolves that from
// the VPC registry since a Peering only names its Remote by string.
func Compile(v vpc.Vpc, remoteExposes func(remote string) []vpc.Expose) *Table {
	t := NewTable(v.Vni)

	for _, peering := range v.Peerings {
		vExposes := peering.Left.Exposes
		rExposes := remoteExposes(peering.Remote)

		installDstNat(t.DstNat, rExposes)

		peerTrie := lpm.New[*TrieValue]()
		installSrcNat(peerTrie, vExposes)
		peerIndex := len(t.SrcNatPrefixes)
		t.SrcNatPrefixes = append(t.SrcNatPrefixes, &SrcNatPeer{Table: peerTrie})

		for _, expose := range vExposes {
			for _, prefix := range expose.Ips {
				_, existing, ok := t.SrcNatPeers.Lookup(prefix.Addr())
				indices := []int{peerIndex}
				if ok {
					indices = append(append([]int{}, existing...), peerIndex)
				}
				t.SrcNatPeers.Insert(prefix, indices)
			}
		}
	}

	return t
}

// installDstNat installs, for every remote expose, each `as \ not_as`
// public prefix pointing back at the private side, then re-installs the
// excluded public sub-prefixes with nil to carve them back out.
func installDstNat(trie *lpm.Trie[*TrieValue], exposes []vpc.Expose) {
	for _, expose := range exposes {
		value := &TrieValue{
			CurrentPrefixes: expose.As,
			CurrentExcludes: expose.NotAs,
			TargetPrefixes:  expose.Ips,
			TargetExcludes:  expose.Nots,
		}
		for _, p := range expose.As {
			trie.Insert(p, value)
		}
		for _, p := range expose.NotAs {
			trie.Insert(p, nil)
		}
	}
}

// installSrcNat mirrors installDstNat for the outbound direction: every
// private prefix maps forward to the public side.
func installSrcNat(trie *lpm.Trie[*TrieValue], exposes []vpc.Expose) {
	for _, expose := range exposes {
		value := &TrieValue{
			CurrentPrefixes: expose.Ips,
			CurrentExcludes: expose.Nots,
			TargetPrefixes:  expose.As,
			TargetExcludes:  expose.NotAs,
		}
		for _, p := range expose.Ips {
			trie.Insert(p, value)
		}
		for _, p := range expose.Nots {
			trie.Insert(p, nil)
		}
	}
}
