// Package message defines the request and response contracts the dispatcher
// works against, along with small in-memory implementations of both.
//
// The dispatcher never looks inside a payload. It reads the target object
// name and the action name from a Request and reports every outcome through
// a Response, so any transport can sit in front of it by implementing these
// two interfaces.
package message
