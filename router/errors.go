package router

import (
	"errors"
	"fmt"
)

var (
	// ErrNilHandler is returned when a nil Handler is dispatched.
	ErrNilHandler = errors.New("handler is nil")

	// ErrTargetNotFound is returned when no factory is registered for the
	// target named by a handler reference.
	ErrTargetNotFound = errors.New("handler target not found")

	// ErrNilTarget is returned when a factory succeeds but returns no target.
	ErrNilTarget = errors.New("handler factory returned nil target")

	// ErrMissingMember is returned when a handler reference names a target
	// without a "::Member" part.
	ErrMissingMember = errors.New("handler reference has no member")

	// ErrMemberNotFound is returned when the resolved target has no
	// invocable member with the referenced name.
	ErrMemberNotFound = errors.New("handler member not found")
)

// ResolutionError reports that the target of a handler reference could not
// be located or constructed. The dispatch is abandoned; nothing is cached.
type ResolutionError struct {
	// Ref is the handler reference as registered.
	Ref string

	// Target is the qualified target name that was looked up.
	Target string

	// Err is ErrTargetNotFound, ErrNilTarget or the factory error.
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("router: resolve %q (target %q): %v", e.Ref, e.Target, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// InvocationError reports that a resolved target does not provide the
// referenced member.
type InvocationError struct {
	// Ref is the handler reference as registered.
	Ref string

	// Member is the member name taken from the reference.
	Member string

	// Err is ErrMissingMember or ErrMemberNotFound.
	Err error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("router: invoke %q (member %q): %v", e.Ref, e.Member, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}
