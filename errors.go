package sps

import (
	"errors"
	"fmt"
)

var (
	ErrCapacityExceeded = errors.New("sps: capacity exceeded")
	ErrInvalidIndex     = errors.New("sps: invalid index")
	ErrInvalidShape     = errors.New("sps: invalid shape template")
	ErrNotBuilt         = errors.New("sps: pool not built")
	ErrDisposed         = errors.New("sps: pool disposed")
	ErrHierarchyCycle   = errors.New("sps: hierarchy cycle")
)

// HierarchyCycleError reports one parent-chain cycle. Members are listed in
// the order the chain was followed.
type HierarchyCycleError struct {
	Members []int
}

func (e *HierarchyCycleError) Error() string {
	if len(e.Members) == 1 {
		return fmt.Sprintf("sps: hierarchy cycle: particle %d is its own parent", e.Members[0])
	}
	return fmt.Sprintf("sps: hierarchy cycle through particles %v", e.Members)
}

func (e *HierarchyCycleError) Is(target error) bool {
	return target == ErrHierarchyCycle
}

// HookError wraps a failure returned by a lifecycle hook.
type HookError struct {
	Hook  string
	Index int
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("sps: %s hook failed at particle %d: %v", e.Hook, e.Index, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

func invalidIndex(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidIndex, fmt.Sprintf(format, args...))
}
