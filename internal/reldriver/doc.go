// Package reldriver is the demo SQLite backend relharness's end-to-end
// scenarios run compiled queries against. It implements the two
// methods the core's external collaborators need — RunQuery (execute
// already-compiled SQL text, return a relschema.TableRep) and
// TableInfo (describe a base table's Schema for the catalog a
// compilation needs) — and nothing else: the rel* core packages never
// import this package, only the other direction.
//
// Open applies foreign_keys and busy_timeout pragmas and sizes the
// pool with SetMaxOpenConns(1) for single-writer semantics; WAL mode
// is skipped since the demo runs against an in-memory database with
// no concurrent-reader-during-write scenario to serve.
package reldriver
