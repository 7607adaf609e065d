// Package registry maps controller names to registrations and controller
// kinds to factories.
//
// A registration says how a controller is built the first time someone asks
// for it:
//
//   - Path:    a controller manifest on disk, resolved when the controller loads
//   - Factory: a Go constructor supplied directly
//   - Auto:    no implementation; the generic auto-provisioned controller is used
//
// The registry itself is pure data. It never constructs anything; the loader
// reads a registration exactly once per name, on first use, and ignores it
// from then on.
//
// Compiled-in controller modules contribute kinds (e.g. "echo") through the
// Module interface, the same way they are wired into the binary at startup.
// Controller manifests refer to those kinds by name.
package registry
