// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from various
// sources.
//
// The `config.Model` describes the service (its name, shared controller
// options and explicit controller declarations) and the request script the
// CLI replays against it. The concrete HCL implementation lives in the
// manifest package.
package config
