// Package controller defines the contract between the dispatcher and the
// handlers it routes requests to.
//
// A controller groups related actions under one name. Concrete controllers
// embed *Base, which carries the controller's identity and two explicit
// tables filled in at construction time:
//
//   - actions: action name -> Action
//   - hooks:   (phase, action name) -> Action
//
// A request for action "create" runs the "before" hook registered for
// "create" (conventionally named beforeCreate), then the action, then the
// "after" hook. Hooks are optional, and an error from any step stops the
// chain.
//
// Actions report their outcome through the message.Response they receive.
// An action that panics has broken its contract: the panic is recovered and
// turned into a server_error response instead of crashing the dispatcher.
package controller
