// Package reconcile implements the generic observe/create/update/remove
// decision table (§4.5) and the bounded convergence loop built on top of it.
// It has no knowledge of kernel resources; pkg/netstate supplies the
// Observer/Creator/Updater/Remover implementations that make this concrete.
package reconcile

import "context"

// Action is the decision Reconcile reaches for one (requirement,
// observation) pair.
type Action int

const (
	NoOp Action = iota
	ActionCreate
	ActionUpdate
	ActionRemove
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "Create"
	case ActionUpdate:
		return "Update"
	case ActionRemove:
		return "Remove"
	default:
		return "NoOp"
	}
}

// Observation is anything a Reconcile pass can project back to the
// requirement it satisfies, for equality comparison against the desired
// requirement.
type Observation[R comparable] interface {
	AsRequirement() R
}

// Observer lists the live state of a resource kind.
type Observer[O any] interface {
	Observe(ctx context.Context) ([]O, error)
}

// Creator installs a resource described by a requirement. name is the join
// key the requirement was registered under, since R itself need not carry
// its own name.
type Creator[R any] interface {
	Create(ctx context.Context, name string, req R) error
}

// Updater mutates an observed resource toward a requirement. It need not
// reach the requirement in one call — the next pass re-observes and
// re-decides.
type Updater[R, O any] interface {
	Update(ctx context.Context, req R, obs O) error
}

// Remover deletes an observed resource.
type Remover[O any] interface {
	Remove(ctx context.Context, obs O) error
}

// Driver bundles the four operations for one resource kind.
type Driver[R comparable, O Observation[R]] interface {
	Observer[O]
	Creator[R]
	Updater[R, O]
	Remover[O]
}

// Reconcile applies the decision table in §4.5 to a single (requirement,
// observation) pair and executes the resulting action. It returns the
// action taken and any error from executing it; a nil requirement/pointer
// pair using Go's zero value is expressed by the caller passing hasReq /
// hasObs explicitly since R and O are not required to be pointer types.
func Reconcile[R comparable, O Observation[R]](ctx context.Context, d Driver[R, O], name string, req R, hasReq bool, obs O, hasObs bool) (Action, error) {
	switch {
	case hasReq && !hasObs:
		return ActionCreate, d.Create(ctx, name, req)
	case !hasReq && hasObs:
		return ActionRemove, d.Remove(ctx, obs)
	case hasReq && hasObs:
		if obs.AsRequirement() == req {
			return NoOp, nil
		}
		return ActionUpdate, d.Update(ctx, req, obs)
	default:
		return NoOp, nil
	}
}
