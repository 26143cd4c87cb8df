// Package activestate reports whether a target state, with optional parameter
// values, is active in a hierarchical router, and keeps that answer current as the
// router commits transitions.
//
// States are named by dot-delimited paths ("parent.child1"). A target is active when
// the router's current state is the target or, unless exact matching is requested, one
// of its descendants, and every parameter the target specifies matches the current
// value. Targets beginning with "." or "^" are relative to an explicit base state.
//
// A Matcher evaluates one target and subscribes to transition success; observers hear
// only about flips. A Group ORs the results of its members and nests, so a set of
// links can be styled as one unit.
//
// Example:
//
//	m, err := activestate.NewMatcher(router, activestate.Target{State: "parent"})
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//
//	nav := activestate.NewGroup("active")
//	defer nav.Close()
//	if _, err := nav.Bind(m); err != nil {
//		return err
//	}
package activestate
