package fib

import "fmt"

// FibGroup is an ordered collection of one or more equally-weighted
// FibEntry values. Distinct prefixes whose groups are semantically equal
// share a single reference-counted FibGroup.
type FibGroup struct {
	Entries  []FibEntry
	refCount int
}

// NewFibGroup builds a fresh, unreferenced group from entries.
func NewFibGroup(entries ...FibEntry) *FibGroup {
	return &FibGroup{Entries: entries}
}

// dropGroup is the well-known group installed at every FIB's default
// route; it is never removed, only overwritten.
func dropGroup() *FibGroup {
	return &FibGroup{Entries: []FibEntry{{Drop()}}}
}

// key returns a deterministic string identifying the group's content,
// used to dedup semantically-equal groups on insertion.
func (g *FibGroup) key() string {
	return fmt.Sprintf("%+v", g.Entries)
}

// RefCount returns the number of live prefixes referencing g.
func (g *FibGroup) RefCount() int { return g.refCount }
