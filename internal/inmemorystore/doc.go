// Package inmemorystore provides a thread-safe, in-memory record store. It
// backs the auto-provisioned controller, which offers conventional CRUD
// actions without any persistence behind them.
package inmemorystore
