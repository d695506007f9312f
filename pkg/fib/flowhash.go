package fib

import "hash/fnv"

// flowHash computes a deterministic hash over a flow's immutable fields
// (IP src/dst, protocol, and L4 ports when applicable), used to select
// one entry from a FibGroup holding more than one equally-weighted
// FibEntry.
func flowHash(flow FlowKey) uint32 {
	h := fnv.New32a()
	h.Write(flow.Src.AsSlice())
	h.Write(flow.Dst.AsSlice())
	h.Write([]byte{flow.Protocol})
	if flow.HasTransportPorts {
		h.Write([]byte{byte(flow.SrcPort >> 8), byte(flow.SrcPort), byte(flow.DstPort >> 8), byte(flow.DstPort)})
	}
	return h.Sum32()
}
