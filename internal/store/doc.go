// Package store is the SQLite manifest ledger of cfgfuzz runs.
//
// Each run records its input (path and content hash), the output directory,
// the randomness seed and how many documents the expansion produced. Every
// written file is recorded against its run with its 1-based index and the
// canonical content hash, so the same configuration can be found across runs
// with FindByHash.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: configs must reference an existing run
//
// Runs are ordered by insertion (rowid), never by created_at.
package store
