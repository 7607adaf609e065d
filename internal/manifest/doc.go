// Package manifest is the HCL implementation of config.Loader and of the
// loader.Resolver used for path-registered controllers.
//
// Three kinds of top-level blocks are understood:
//
//	service "inventory" {
//	  options = { page_size = 25 }
//	  controller "echo"   { kind = "echo" }
//	  controller "report" { path = "controllers/Report.hcl" }
//	  controller "widget" {}
//	}
//
//	request "widget" "create" {
//	  count   = 3
//	  payload = { name = "bolt", owner = env.USER }
//	}
//
//	legacy_request "widget" {
//	  method = "GET"
//	}
//
// A controller manifest, referenced by path or discovered in a controller
// directory, holds a single block naming a compiled-in controller kind:
//
//	controller "echo" {
//	  options = { greeting = "hello" }
//	}
//
// Expressions are evaluated with an `env` object holding the process
// environment.
package manifest
