// Package artifact writes the files an installation owns.
//
// Every write goes to a scratch file (.lbi-tmp-*) in the destination
// directory which is synced, chmod'ed and renamed over the destination,
// so a reader sees either the old artifact or the new one. Before an
// artifact is overwritten the engine can Preserve it; the preserved copy
// (.lbi-bak-*) is either restored on rollback or discarded on commit.
//
// Failures are returned as coded errors: SOURCE_UNREADABLE for the input
// side, DESTINATION_UNWRITABLE or INSUFFICIENT_SPACE for the output side.
package artifact
