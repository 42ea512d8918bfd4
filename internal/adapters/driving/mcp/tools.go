package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of chunks to retrieve (default from configuration)"`
	Language string `json:"language,omitempty" jsonschema:"language to answer in"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources,omitempty"`
	Grounded bool     `json:"grounded"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find document chunks"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of results to return"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved chunk.
type SearchResultOutput struct {
	ChunkID      string  `json:"chunk_id"`
	DocumentPath string  `json:"document_path"`
	Position     int     `json:"position"`
	Score        float64 `json:"score"`
	Content      string  `json:"content"`
}

// ReindexInput is the input schema for the reindex tool.
type ReindexInput struct {
	Folders []string `json:"folders,omitempty" jsonschema:"folders to index (default: the configured folders)"`
}

// ReindexOutput is the output schema for the reindex tool.
type ReindexOutput struct {
	Indexed          int  `json:"indexed"`
	Updated          int  `json:"updated"`
	SkippedUnchanged int  `json:"skipped_unchanged"`
	Deleted          int  `json:"deleted"`
	Errored          int  `json:"errored"`
	Cancelled        bool `json:"cancelled"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the indexed documents, with source citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Retrieve the document chunks most similar to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reindex",
		Description: "Rescan the configured folders and bring the index up to date",
	}, s.handleReindex)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answer.Answer(ctx, domain.Query{
		Text:           input.Question,
		TopK:           input.TopK,
		TargetLanguage: input.Language,
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:   answer.Text,
		Sources:  answer.Sources,
		Grounded: answer.Grounded,
	}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Answer.Retrieve(ctx, input.Query, input.TopK)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			ChunkID:      results[i].Chunk.ID,
			DocumentPath: results[i].Chunk.DocumentPath,
			Position:     results[i].Chunk.Position,
			Score:        results[i].Score,
			Content:      results[i].Chunk.Content,
		}
	}

	return nil, output, nil
}

// handleReindex handles the reindex tool invocation.
func (s *Server) handleReindex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReindexInput,
) (*mcp.CallToolResult, ReindexOutput, error) {
	folders := input.Folders
	if len(folders) == 0 && s.ports.Config != nil {
		folders = s.ports.Config.SelectedFolders
	}

	summary, err := s.ports.Indexer.Reindex(ctx, folders)
	if err != nil {
		return nil, ReindexOutput{}, err
	}

	return nil, ReindexOutput{
		Indexed:          summary.Indexed,
		Updated:          summary.Updated,
		SkippedUnchanged: summary.SkippedUnchanged,
		Deleted:          summary.Deleted,
		Errored:          summary.Errored,
		Cancelled:        summary.Cancelled,
	}, nil
}
