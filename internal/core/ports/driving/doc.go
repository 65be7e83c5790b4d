// Package driving provides interfaces for the primary/inbound ports:
// the operations the CLI drives the core with.
package driving
