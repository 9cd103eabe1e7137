// Package engine implements install, update, uninstall, list, status and
// reconcile over the managed application tree.
//
// Every mutation holds the registry lock for its whole duration, starts
// with a reconciliation pass, writes artifacts through a rollback journal
// and commits the registry record last. A failed operation undoes its
// journal in reverse order, so the registry only ever shows applications
// that are fully installed or absent.
//
// Read-only views (List, Status) take the lock opportunistically: when a
// mutation is running they fall back to a lock-free snapshot and hide
// records whose binary is missing instead of waiting.
package engine
