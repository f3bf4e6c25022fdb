// Package sqlite3 is a thin, type-safe binding over the SQLite C interface.
//
// The package wraps the native engine shipped by modernc.org/sqlite/lib
// (the ccgo translation of the SQLite amalgamation) and exposes its
// open/prepare/step/bind/column contract as Go types with explicit error
// returns: Conn owns a database handle, Stmt owns one compiled statement,
// Query adds typed column access and row iteration, Insert adds rowid
// read-back, Batch executes semicolon-separated scripts, and Tx is a
// scoped commit-or-rollback guard.
//
// All real database work - parsing, storage, transactions, locking - is
// performed by the wrapped engine. This layer only manages handle
// lifetimes, translates result codes, and converts values across the
// Go/C boundary. A Conn and the statements derived from it must be used
// from one goroutine at a time; the binding adds no synchronization of
// its own.
package sqlite3

import lib "modernc.org/sqlite/lib"

// Version is the version of this binding.
const Version = "1.0.0"

// EngineVersion is the version string of the wrapped SQLite engine,
// in the form "X.Y.Z".
const EngineVersion = lib.SQLITE_VERSION
