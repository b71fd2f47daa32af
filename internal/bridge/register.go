package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lydakis/cadbridge/internal/catalog"
)

// register wires the catalog into the MCP server. Handler errors become
// tool-result errors on the wire, not protocol errors, so clients always get
// a well-formed result.
func register(s *server.MCPServer, cat *catalog.Catalog) {
	for _, r := range cat.Resources() {
		s.AddResource(r.Def, resourceHandler(r))
	}
	for _, t := range cat.Tools() {
		s.AddTool(t.Def, toolHandler(t))
	}
	for _, p := range cat.Prompts() {
		s.AddPrompt(p.Def, promptHandler(p))
	}
}

func resourceHandler(r catalog.Resource) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		v, err := r.Read(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", r.Def.URI, err)
		}
		return []mcp.ResourceContents{mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}}, nil
	}
}

func toolHandler(t catalog.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := t.Handle(ctx, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if result == nil {
			return mcp.NewToolResultText("ok"), nil
		}
		data, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func promptHandler(p catalog.Prompt) server.PromptHandlerFunc {
	return func(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		description := request.Params.Arguments["description"]
		if description == "" {
			return nil, fmt.Errorf("missing required argument %q", "description")
		}
		return p.Render(description), nil
	}
}
