package activestate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoBaseState is returned when a relative reference has nothing to resolve against.
	ErrNoBaseState = errors.New("relative state reference without base state")
	// ErrInvalidReference is returned for malformed references such as "^" on a root state.
	ErrInvalidReference = errors.New("invalid state reference")
)

// ResolutionError describes a state reference that could not be made absolute.
type ResolutionError struct {
	Ref  string
	Base string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Base == "" {
		return fmt.Sprintf("resolve %q: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("resolve %q relative to %q: %v", e.Ref, e.Base, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Target names a state, possibly relative, and the parameter values it must carry to be active.
type Target struct {
	State  string `json:"state" yaml:"state"`
	Params Params `json:"params,omitempty" yaml:"params,omitempty"`
}

// IsRelative reports whether ref must be resolved against a base state.
func IsRelative(ref string) bool {
	return strings.HasPrefix(ref, ".") || strings.HasPrefix(ref, "^")
}

// ResolveTarget turns ref into an absolute dot-delimited state name.
//
//	".child"      -> base + ".child"
//	"^"           -> parent of base
//	"^.sibling"   -> parent of base + ".sibling"
//	"^.^.uncle"   -> grandparent of base + ".uncle"
//
// Absolute references are returned unchanged and never need a base.
func ResolveTarget(ref, base string) (string, error) {
	if !IsRelative(ref) {
		return ref, nil
	}
	if base == "" {
		return "", &ResolutionError{Ref: ref, Err: ErrNoBaseState}
	}

	current := base
	rest := ref
	for strings.HasPrefix(rest, "^") {
		idx := strings.LastIndex(current, ".")
		if idx < 0 {
			return "", &ResolutionError{Ref: ref, Base: base, Err: fmt.Errorf("%w: %q has no parent", ErrInvalidReference, current)}
		}
		current = current[:idx]
		rest = rest[1:]
		if rest != "" && !strings.HasPrefix(rest, ".") {
			return "", &ResolutionError{Ref: ref, Base: base, Err: ErrInvalidReference}
		}
		rest = strings.TrimPrefix(rest, ".")
		if strings.HasPrefix(rest, ".") {
			return "", &ResolutionError{Ref: ref, Base: base, Err: ErrInvalidReference}
		}
	}
	rest = strings.TrimPrefix(rest, ".")
	if rest == "" {
		return current, nil
	}
	for _, seg := range strings.Split(rest, ".") {
		if seg == "" {
			return "", &ResolutionError{Ref: ref, Base: base, Err: fmt.Errorf("%w: empty segment", ErrInvalidReference)}
		}
	}
	return current + "." + rest, nil
}

// IsAncestor reports whether ancestor equals descendant or is a dot-prefix of it.
func IsAncestor(ancestor, descendant string) bool {
	if ancestor == "" {
		return false
	}
	if ancestor == descendant {
		return true
	}
	return strings.HasPrefix(descendant, ancestor+".")
}
