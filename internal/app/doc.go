// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: building
// the service from its manifests and replaying a request script against it,
// decoupled from any specific entrypoint like a CLI.
package app
