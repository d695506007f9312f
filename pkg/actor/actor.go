// Package actor hosts the configuration processor's single owning
// goroutine: every ApplyConfig/GetCurrentConfig/GetGeneration request is
// a closure handed across a capacity-1 channel and run serially by that
// goroutine, generalizing the teacher's Node.ExecuteOp mutex-guarded
// lock/apply/unlock lifecycle into a channel-owned actor.
package actor

import (
	"bytes"
	"context"

	"github.com/fabricgw/gwdataplane/pkg/configdb"
	"github.com/fabricgw/gwdataplane/pkg/frrmi"
	"github.com/fabricgw/gwdataplane/pkg/gwconfig"
	"github.com/fabricgw/gwdataplane/pkg/netstate"
	"github.com/fabricgw/gwdataplane/pkg/util"
)

// ReconcileBudget bounds how many convergence passes Apply step 6 and the
// periodic reconciliation driver run before giving up. 300 passes is the
// production floor; the actor tests use a fakeReconciler, which ignores
// the budget.
const ReconcileBudget = 300

// frrPeer is the subset of *frrmi.Client the actor needs, narrowed so
// tests can substitute a fake routing-daemon peer.
type frrPeer interface {
	Apply(gen uint64, payload []byte) error
	Probe() bool
}

// converger is the subset of *netstate.Reconciler the actor needs,
// narrowed so tests can substitute a fake kernel.
type converger interface {
	Converge(ctx context.Context, rib netstate.RequiredInformationBase, budget int) (int, bool, error)
}

// Actor is the configuration processor's request loop, owning all
// mutable state (the store, the FRR peer, the reconciler, and the last
// applied configuration) so no mutex is needed: only the goroutine
// running Run ever touches them.
type Actor struct {
	store      *configdb.Store
	frr        frrPeer
	prober     *frrmi.Prober
	reconciler converger

	requests chan func()
	done     chan struct{}

	current    *gwconfig.CompiledConfig
	currentGen uint64
	hasCurrent bool

	// onApply, if set, runs synchronously inside the actor's goroutine
	// right after a generation is promoted, letting a caller (e.g. the
	// route-ingester's VRF set) stay in step with every applied config
	// without its own polling.
	onApply func(*gwconfig.CompiledConfig)
}

// New builds an Actor around store, frr, and reconciler. Run must be
// started in its own goroutine before any request method is called.
func New(store *configdb.Store, frr frrPeer, reconciler converger) *Actor {
	return &Actor{
		store:      store,
		frr:        frr,
		prober:     frrmi.NewProber(frr),
		reconciler: reconciler,
		requests:   make(chan func(), 1),
		done:       make(chan struct{}),
	}
}

// OnApply registers fn to run after every successfully promoted
// generation. It must be called before Run starts.
func (a *Actor) OnApply(fn func(*gwconfig.CompiledConfig)) {
	a.onApply = fn
}

// Run drains requests until ctx is cancelled. It must run in exactly one
// goroutine for the actor's no-lock invariant to hold.
func (a *Actor) Run(ctx context.Context) {
	defer close(a.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-a.requests:
			fn()
		}
	}
}

// submit hands fn to the running actor, returning ErrStopped if Run has
// already exited rather than blocking forever on a channel nothing will
// ever drain again.
func (a *Actor) submit(ctx context.Context, fn func()) error {
	// Checked first: once done is closed the buffered requests channel
	// may still have room, and a send there would never be drained.
	select {
	case <-a.done:
		return ErrStopped
	default:
	}
	select {
	case a.requests <- fn:
		return nil
	case <-a.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ApplyConfig runs the Apply algorithm (§4.6 steps 1-7) against raw, a
// serialized Document, returning the resulting generation id on success.
func (a *Actor) ApplyConfig(ctx context.Context, raw []byte) (gwconfig.GenId, error) {
	type result struct {
		gen gwconfig.GenId
		err error
	}
	reply := make(chan result, 1)

	if err := a.submit(ctx, func() {
		gen, err := a.applyConfig(ctx, raw)
		reply <- result{gen: gen, err: err}
	}); err != nil {
		return 0, err
	}

	select {
	case r := <-reply:
		return r.gen, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// GetCurrentConfig returns the last successfully applied configuration.
func (a *Actor) GetCurrentConfig(ctx context.Context) (*gwconfig.CompiledConfig, error) {
	type result struct {
		cc  *gwconfig.CompiledConfig
		err error
	}
	reply := make(chan result, 1)

	if err := a.submit(ctx, func() {
		if !a.hasCurrent {
			reply <- result{err: gwconfig.ErrInternalFailure("no configuration applied yet")}
			return
		}
		reply <- result{cc: a.current}
	}); err != nil {
		return nil, err
	}

	select {
	case r := <-reply:
		return r.cc, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reconcile re-runs convergence against the last applied configuration
// without touching the store or the routing daemon — the periodic
// driver's "or on demand" companion to Apply step 6 (§5), a safety net
// against drift introduced outside the configuration processor. It is a
// no-op, reporting converged, if no generation has been applied yet.
func (a *Actor) Reconcile(ctx context.Context) (passes int, converged bool, err error) {
	type result struct {
		passes    int
		converged bool
		err       error
	}
	reply := make(chan result, 1)

	if err := a.submit(ctx, func() {
		if !a.hasCurrent {
			reply <- result{converged: true}
			return
		}
		passes, converged, err := a.reconciler.Converge(ctx, toRequiredInformationBase(a.current), ReconcileBudget)
		reply <- result{passes: passes, converged: converged, err: err}
	}); err != nil {
		return 0, false, err
	}

	select {
	case r := <-reply:
		return r.passes, r.converged, r.err
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
}

// GetGeneration returns the currently applied generation id, or false if
// no generation has ever been applied.
func (a *Actor) GetGeneration(ctx context.Context) (uint64, bool, error) {
	type result struct {
		gen uint64
		ok  bool
	}
	reply := make(chan result, 1)

	if err := a.submit(ctx, func() {
		reply <- result{gen: a.currentGen, ok: a.hasCurrent}
	}); err != nil {
		return 0, false, err
	}

	select {
	case r := <-reply:
		return r.gen, r.ok, nil
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
}

// applyConfig runs entirely inside Run's goroutine: no locking needed.
func (a *Actor) applyConfig(ctx context.Context, raw []byte) (gwconfig.GenId, error) {
	doc, err := gwconfig.Decode(bytes.NewReader(raw))
	if err != nil {
		return 0, gwconfig.ErrInternalFailure(err.Error())
	}
	if doc.Generation == 0 {
		doc.Generation = uint64(gwconfig.NewGenId())
	}
	gen := gwconfig.GenId(doc.Generation)
	log := util.WithGeneration(doc.Generation)

	// Step 1: reject a resubmitted generation id.
	exists, err := a.store.Exists(ctx, doc.Generation)
	if err != nil {
		return 0, gwconfig.ErrInternalFailure(err.Error())
	}
	if exists {
		return 0, gwconfig.ErrConfigAlreadyExists(gen)
	}

	// Step 2: validate.
	if err := gwconfig.Validate(doc); err != nil {
		return 0, err
	}

	// Step 3: compile.
	cc, err := gwconfig.Compile(doc)
	if err != nil {
		return 0, err
	}

	// Step 4: persist the accepted generation before touching live state.
	if err := a.store.Save(ctx, doc.Generation, raw); err != nil {
		return 0, gwconfig.ErrInternalFailure(err.Error())
	}

	// Step 5: the routing daemon must be reachable before anything is
	// pushed to it.
	if !a.prober.Probe() {
		return 0, gwconfig.ErrFrrAgentUnreachable("frr agent did not answer keepalive")
	}

	// Step 6: converge kernel state toward cc, bounded.
	passes, converged, err := a.reconciler.Converge(ctx, toRequiredInformationBase(cc), ReconcileBudget)
	if err != nil {
		return 0, gwconfig.ErrInternalFailure(err.Error())
	}
	if !converged {
		return 0, gwconfig.ErrFailureApply("kernel state did not converge within the reconciliation budget")
	}
	log.WithField("passes", passes).Info("kernel state converged")

	// Step 7: push the rendered configuration to the routing daemon.
	if err := a.frr.Apply(doc.Generation, renderFrr(cc)); err != nil {
		return 0, gwconfig.ErrFailureApply(err.Error())
	}

	previous, hadPrevious, err := a.store.Promote(ctx, doc.Generation)
	if err != nil {
		return 0, gwconfig.ErrInternalFailure(err.Error())
	}
	if hadPrevious {
		log.WithField("previous_generation", previous).Info("promoted generation")
	} else {
		log.Info("promoted first generation")
	}

	a.current = cc
	a.currentGen = doc.Generation
	a.hasCurrent = true

	if a.onApply != nil {
		a.onApply(cc)
	}

	return gen, nil
}
