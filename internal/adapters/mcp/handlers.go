package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dkotenko/docqa/internal/core/domain"
	"github.com/dkotenko/docqa/internal/core/ports"
)

type Handlers struct {
	query ports.QueryService
}

func (h *Handlers) AskDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	documentID := request.GetString("document_id", "")
	topK := request.GetInt("top_k", domain.DefaultTopK)

	settings := domain.QuerySettings{TopK: topK}

	answer, err := h.query.Answer(ctx, question, documentID, settings)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answer failed: %v", err)), nil
	}

	payload, err := json.Marshal(answer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode answer: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (h *Handlers) SearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	documentID := request.GetString("document_id", "")
	topK := request.GetInt("top_k", domain.DefaultTopK)

	results, err := h.query.Retrieve(ctx, query, documentID, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if results == nil {
		results = []domain.RetrievalResult{}
	}

	payload, err := json.Marshal(map[string]any{"results": results})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
