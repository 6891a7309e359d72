// Package store defines the persistence interfaces for the application's
// entities along with the sentinel errors shared by all implementations.
//
// Interfaces here are intentionally storage-agnostic: the PostgreSQL
// implementations live in internal/platform/postgres, and tests use the
// in-memory mocks from internal/mocks.
package store
