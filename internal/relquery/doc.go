// Package relquery defines QueryRep, the persistent, purely functional
// tagged tree of relational-algebra operators callers build queries
// out of, and the fluent Builder used to construct one.
//
// Query is a sealed interface (marker method pattern, following
// internal/relfilter's FilterExp): only the ten operator structs
// declared in this package implement it,
// so internal/relinfer and internal/relsql can exhaustively type-switch
// over every QueryRep node and fall through to an InvalidOperator error
// if a new variant is ever added without updating both.
//
// QueryRep nodes are immutable once constructed: every Builder method
// wraps the current tree as the `from`/`lhs`/`rhs`/`target` of a new
// node rather than mutating anything, so a QueryRep subtree may be
// safely shared (aliased) across multiple queries — the tree is
// formally a DAG, not necessarily a tree, and consumers must never
// mutate a node they do not exclusively own.
package relquery
