// Package types defines the data shared by every lbi layer: the
// ApplicationRecord stored in the registry, the install and update
// requests front-ends submit, and the read-only reports the engine
// returns.
package types
