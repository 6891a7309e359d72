// Package events defines the task lifecycle events emitted by the task
// service and the emitter/handler interfaces that decouple business logic
// from delivery transport. Events are cache-invalidation signals: clients
// refetch state rather than trusting event payloads as the source of truth.
package events
