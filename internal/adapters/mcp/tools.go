package mcpadapter

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/dkotenko/docqa/internal/core/ports"
)

// RegisterTools wires the question-answering tools into an MCP server so
// agent hosts can query the indexed corpus over stdio.
func RegisterTools(server *mcpserver.MCPServer, query ports.QueryService) *Handlers {
	handlers := &Handlers{query: query}

	server.AddTool(mcp.Tool{
		Name:        "ask_documents",
		Description: "Answer a question using the indexed document corpus. Returns the generated answer with cited source chunks.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer from the documents",
				},
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional document id to restrict the answer to a single document",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of chunks to retrieve (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskDocuments)

	server.AddTool(mcp.Tool{
		Name:        "search_documents",
		Description: "Semantic search over indexed document chunks without answer generation. Returns matching chunks with similarity scores.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional document id to restrict the search to a single document",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of chunks to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchDocuments)

	return handlers
}
