// Package testutil provides the shared fixtures for lbi tests.
//
// Key components:
//   - TestEnvironment: an install root, fake home, XDG dirs and a source
//     directory, on memory or on a real temp directory
//   - FaultyFs: an afero wrapper that fails chosen operations on chosen
//     paths, used to exercise rollback
//   - Assert helpers for artifacts on an afero filesystem
//
// Every environment is isolated: HOME and the XDG variables point inside
// it for the duration of the test.
package testutil
