// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these
// standardized implementations are shared across test packages. Each mock
// exposes function fields to override individual methods, plus a simple
// in-memory default so most tests need no setup beyond construction.
package mocks
