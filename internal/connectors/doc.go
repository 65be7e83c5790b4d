// Package connectors holds source-specific adapters. Each connector knows
// how to enumerate and fetch content from one external source; youtube is
// currently the only one.
package connectors
