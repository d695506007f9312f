package reconcile

import (
	"context"

	"github.com/fabricgw/gwdataplane/pkg/util"
)

// Named is implemented by observations that carry the resource's kernel
// name, the join key between required and observed state.
type Named interface {
	Name() string
}

// NamedObservation is the full shape a convergence Pass needs: projection
// back to its requirement (for equality), its name (for the join), and
// whether it carries the "Other" property that exempts an unrequired
// resource from removal (§4.5 step 2).
type NamedObservation[R comparable] interface {
	Observation[R]
	Named
	IsOther() bool
}

// Pass runs one convergence pass for a single resource kind (§4.5 steps
// 2-4): observed-but-not-required resources (other than those marked Other)
// are removed, observed-and-required pairs are reconciled, and
// required-but-not-observed resources are created. It returns true iff
// every decision this pass was a no-op.
func Pass[R comparable, O NamedObservation[R]](ctx context.Context, d Driver[R, O], required map[string]R) (bool, error) {
	observed, err := d.Observe(ctx)
	if err != nil {
		return false, err
	}

	byName := make(map[string]O, len(observed))
	for _, o := range observed {
		byName[o.Name()] = o
	}

	quiescent := true

	for name, o := range byName {
		req, hasReq := required[name]
		if !hasReq {
			if o.IsOther() {
				continue
			}
			if _, err := Reconcile[R, O](ctx, d, name, req, false, o, true); err != nil {
				util.WithField("resource", name).WithField("action", "Remove").Warn("reconcile: operation failed, will retry next pass")
			}
			quiescent = false
			continue
		}
		action, err := Reconcile[R, O](ctx, d, name, req, true, o, true)
		if err != nil {
			util.WithField("resource", name).WithField("action", action.String()).Warn("reconcile: operation failed, will retry next pass")
			quiescent = false
			continue
		}
		if action != NoOp {
			quiescent = false
		}
	}

	for name, req := range required {
		if _, ok := byName[name]; ok {
			continue
		}
		var zero O
		if _, err := Reconcile[R, O](ctx, d, name, req, true, zero, false); err != nil {
			util.WithField("resource", name).WithField("action", "Create").Warn("reconcile: operation failed, will retry next pass")
		}
		quiescent = false
	}

	return quiescent, nil
}

// Loop drives Pass to convergence, bounded by budget passes. It returns the
// number of passes actually run and whether the fixed point was reached.
// A transient per-operation error causes the current pass to report
// not-converged (via a false return from Pass's caller, per §4.5's
// "Operation atomicity") rather than aborting the loop; only an error
// returned from Pass itself (observe failure) stops the loop early.
func Loop[R comparable, O NamedObservation[R]](ctx context.Context, d Driver[R, O], required map[string]R, budget int) (int, bool, error) {
	for i := 1; i <= budget; i++ {
		done, err := Pass[R, O](ctx, d, required)
		if err != nil {
			return i, false, err
		}
		if done {
			return i, true, nil
		}
	}
	return budget, false, nil
}
