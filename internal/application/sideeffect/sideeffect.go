// Package sideeffect gives best-effort side channels (notifications, audit,
// broadcast) a typed outcome instead of a swallowed error, so callers and
// tests can assert on degraded-but-successful operations.
package sideeffect

// Result is the outcome of one best-effort side effect.
type Result struct {
	Name      string
	Delivered bool
	Err       error
}

// Attempt runs fn and wraps its outcome. The error is captured, never
// propagated.
func Attempt(name string, fn func() error) Result {
	if err := fn(); err != nil {
		return Result{Name: name, Err: err}
	}
	return Result{Name: name, Delivered: true}
}

// AllDelivered reports whether every side effect in the batch succeeded.
func AllDelivered(results []Result) bool {
	for _, r := range results {
		if !r.Delivered {
			return false
		}
	}
	return true
}
