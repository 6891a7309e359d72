// Package api handles incoming HTTP requests, request validation and
// response formatting. It acts as an adapter between external clients
// and the internal application services, and is the only layer that
// translates typed errors into HTTP status codes.
package api
