// Package lock provides the whole-registry lock that serializes
// mutations across processes.
//
// FileLock takes flock(2) LOCK_EX|LOCK_NB on <root>/.lock, retrying with
// exponential backoff; giving up yields LOCK_CONTENTION. TryLock makes a
// single attempt and is used by read-only views that must never block.
package lock
