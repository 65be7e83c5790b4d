// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the source catalog and fetcher, the audio
// normalizer, the transcriber, the two stores, and the durable journals.
package driven
