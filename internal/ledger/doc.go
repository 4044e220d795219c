// Package ledger implements a tamper-evident, append-only log of vehicle
// maintenance records.
//
// Every Block commits to its index, timestamp, canonical payload and the
// hash of the block before it. A Chain always starts with a genesis block
// and only grows through Append.
//
// Audit recomputes every hash and link and reports each mismatch as an
// IntegrityViolation. It never repairs the chain.
//
// Payloads are hashed in a canonical JSON form with sorted object keys, so
// two records with equal field values always produce equal hashes.
package ledger
