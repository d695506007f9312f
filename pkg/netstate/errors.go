package netstate

import "errors"

// ErrReconcile is the sentinel every netlink-facing reconcile failure
// unwraps to, per spec.md §7's ReconcileError taxonomy.
var ErrReconcile = errors.New("netstate: reconcile operation failed")

// ReconcileError reports a failed netlink operation against one named
// resource. The reconciler logs it and lets the next pass retry — it is
// never fatal.
type ReconcileError struct {
	Op       string
	Resource string
	Err      error
}

func (e *ReconcileError) Error() string {
	return "netstate: " + e.Op + " " + e.Resource + ": " + e.Err.Error()
}

func (e *ReconcileError) Unwrap() error { return ErrReconcile }

func reconcileErr(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	return &ReconcileError{Op: op, Resource: resource, Err: err}
}
