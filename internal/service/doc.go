// Package service contains the task collaboration core: a stateless
// rule-enforcement layer over the stores. Ownership rules, filtered
// querying, audit logging of mutations and lifecycle event emission all
// live here; persistence and transport do not.
package service
