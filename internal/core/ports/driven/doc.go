// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): text extraction, embedding, vector storage,
// index state persistence, LLM inference and configuration.
package driven
