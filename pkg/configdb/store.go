// Package configdb is the configuration processor's generation-keyed
// configuration database (spec §3 "Lifecycle"): every accepted
// generation's raw payload is retained, and a "current" pointer tracks
// which generation is applied, so the previously-applied generation
// stays around as the rollback slot.
package configdb

import "context"

// Backend persists raw generation payloads and the current-generation
// pointer. Two backends exist: an in-memory map (the package default,
// used by tests) and a Redis-backed one mirroring the teacher's
// sonic.ConfigDBClient wrapping of *redis.Client.
type Backend interface {
	Save(ctx context.Context, gen uint64, payload []byte) error
	Load(ctx context.Context, gen uint64) ([]byte, bool, error)
	Exists(ctx context.Context, gen uint64) (bool, error)
	SetCurrent(ctx context.Context, gen uint64) error
	Current(ctx context.Context) (uint64, bool, error)
}

// Store is the configuration processor's view onto a Backend: save a
// newly-accepted generation, and promote one to current while reporting
// what was previously current.
type Store struct {
	backend Backend
}

// New wraps backend in a Store.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Exists reports whether gen has already been stored, the check Apply
// step 1 uses to reject a resubmitted generation id.
func (s *Store) Exists(ctx context.Context, gen uint64) (bool, error) {
	return s.backend.Exists(ctx, gen)
}

// Save stores gen's raw payload. Called once a generation has been
// validated and compiled, before it is applied (Apply step 4).
func (s *Store) Save(ctx context.Context, gen uint64, payload []byte) error {
	return s.backend.Save(ctx, gen, payload)
}

// Load returns gen's raw payload, if stored.
func (s *Store) Load(ctx context.Context, gen uint64) ([]byte, bool, error) {
	return s.backend.Load(ctx, gen)
}

// Promote marks gen as the current generation and returns whichever
// generation was current before (false if none was). Generations are
// never deleted, so the prior current generation's payload remains
// loadable as the rollback slot.
func (s *Store) Promote(ctx context.Context, gen uint64) (previous uint64, hadPrevious bool, err error) {
	previous, hadPrevious, err = s.backend.Current(ctx)
	if err != nil {
		return 0, false, err
	}
	if err := s.backend.SetCurrent(ctx, gen); err != nil {
		return 0, false, err
	}
	return previous, hadPrevious, nil
}

// CurrentGeneration reports which generation is current, if any.
func (s *Store) CurrentGeneration(ctx context.Context) (uint64, bool, error) {
	return s.backend.Current(ctx)
}
