// Package registry stores ApplicationRecords keyed by id.
//
// Three backends implement Registry:
//   - json: a single registry.json rewritten atomically on every mutation
//   - sqlite: registry.db, one row per record (modernc.org/sqlite, no cgo)
//   - memory: a mutex-guarded map for tests
//
// Every mutating call is durable before it returns. A store that cannot
// be read or decoded yields REGISTRY_CORRUPT; Reset moves such a store
// aside so a fresh one can be started.
package registry
