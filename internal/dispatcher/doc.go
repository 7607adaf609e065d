// Package dispatcher routes requests to controller actions.
//
// Handle never fails because of what happened to the request: an unknown
// target, a controller that cannot load, a missing action or a failing
// action are all reported through the response with one of the
// message.ErrorKind categories. The returned error is reserved for the
// response channel itself failing to send.
package dispatcher
