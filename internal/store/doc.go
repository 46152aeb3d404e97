// Package store defines the persistence interfaces the engine depends on,
// an error taxonomy shared by all implementations, and a transaction helper.
//
// Interfaces accept a context on every call and return domain entities.
// Implementations live in internal/platform/postgres. Each store exposes a
// WithTx method returning a store bound to an open transaction so services
// can compose multi-store operations atomically via RunInTransaction.
package store
