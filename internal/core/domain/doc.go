// Package domain contains the core business entities for chanscribe:
// channels, videos, transcripts and the chunks derived from them.
// It has no dependencies on adapters or infrastructure.
package domain
