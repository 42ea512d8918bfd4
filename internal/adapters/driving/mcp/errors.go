// Package mcp provides an MCP (Model Context Protocol) server adapter for
// docchat. It lets AI assistants query and reindex the local corpus.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")

// ErrMissingIndexer is returned when the indexer is not provided.
var ErrMissingIndexer = errors.New("mcp: indexer is required")
