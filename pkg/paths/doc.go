// Package paths provides centralized path handling for lbi.
//
// It owns the managed directory layout under the install root, the
// derivation of application ids from display names, and the XDG host
// locations where menu entries and desktop shortcuts are exported.
//
// # Managed layout
//
//	<root>/bin/<id>                   installed executable
//	<root>/icons/<id>.<ext>           icon copy, extension from the source
//	<root>/applications/<id>.desktop  generated desktop entry
//	<root>/registry.json              registry (registry.db for sqlite)
//	<root>/.lock                      whole-registry lock
//
// The root defaults to $HOME/Software/LinuxBinaryInstaller.
//
// # Usage
//
//	r, err := paths.NewResolver("~/Software/LinuxBinaryInstaller")
//	id, err := paths.NormalizeID("My App")         // "my-app"
//	bin, err := r.Path(id, types.ArtifactBinary, "") // <root>/bin/my-app
//
// Resolver methods are pure: they compute locations and never touch the
// filesystem.
package paths
