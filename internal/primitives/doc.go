// Package primitives provides the declarative data structures shared by the engine,
// config loader and persistence layers: the state tree, navigation requests and
// tree versioning.
//
// State names are dot-delimited paths ("parent.child"). A StateConfig holds a single
// segment; its full name is the path from the root of the tree.
//
// Core invariants:
// - Segment IDs never contain dots
// - Sibling IDs are unique
// - Parameter defaults are inherited by descendants and may be overridden
package primitives
