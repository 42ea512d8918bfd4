// Package driving provides interfaces consumed by external actors
// (primary/inbound ports): the CLI, TUI, watcher and MCP adapters.
package driving
