// Package mcplink connects the test client to the bridge's MCP endpoint over
// streamable HTTP.
package mcplink

import (
	"context"
	"fmt"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// Link is one initialized MCP connection.
type Link struct {
	listResources func(ctx context.Context) ([]mcp.Resource, error)
	listTools     func(ctx context.Context) ([]mcp.Tool, error)
	listPrompts   func(ctx context.Context) ([]mcp.Prompt, error)
	callTool      func(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)
	readResource  func(ctx context.Context, uri string) ([]mcp.ResourceContents, error)
	getPrompt     func(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error)
	close         func() error
}

// Connect dials url, starts the transport, and runs the initialize handshake.
func Connect(ctx context.Context, url string, headers map[string]string) (*Link, error) {
	var opts []transport.StreamableHTTPCOption
	if len(headers) > 0 {
		opts = append(opts, transport.WithHTTPHeaders(headers))
	}

	c, err := mcpclient.NewStreamableHttpClient(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	if err := c.Start(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("starting HTTP client: %w", err)
	}

	if _, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: "2025-11-25",
			ClientInfo: mcp.Implementation{
				Name:    "cadbridge",
				Version: "0.1.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}); err != nil {
		c.Close()
		return nil, fmt.Errorf("initializing: %w", err)
	}

	return &Link{
		listResources: func(ctx context.Context) ([]mcp.Resource, error) {
			result, err := c.ListResources(ctx, mcp.ListResourcesRequest{})
			if err != nil {
				return nil, err
			}
			return result.Resources, nil
		},
		listTools: func(ctx context.Context) ([]mcp.Tool, error) {
			result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
			if err != nil {
				return nil, err
			}
			return result.Tools, nil
		},
		listPrompts: func(ctx context.Context) ([]mcp.Prompt, error) {
			result, err := c.ListPrompts(ctx, mcp.ListPromptsRequest{})
			if err != nil {
				return nil, err
			}
			return result.Prompts, nil
		},
		callTool: func(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
			return c.CallTool(ctx, mcp.CallToolRequest{
				Params: mcp.CallToolParams{
					Name:      name,
					Arguments: args,
				},
			})
		},
		readResource: func(ctx context.Context, uri string) ([]mcp.ResourceContents, error) {
			result, err := c.ReadResource(ctx, mcp.ReadResourceRequest{
				Params: mcp.ReadResourceParams{URI: uri},
			})
			if err != nil {
				return nil, err
			}
			return result.Contents, nil
		},
		getPrompt: func(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error) {
			return c.GetPrompt(ctx, mcp.GetPromptRequest{
				Params: mcp.GetPromptParams{
					Name:      name,
					Arguments: args,
				},
			})
		},
		close: func() error {
			return c.Close()
		},
	}, nil
}

// ListResources returns the resources the bridge serves.
func (l *Link) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	return l.listResources(ctx)
}

// ListTools returns the tools the bridge serves.
func (l *Link) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	return l.listTools(ctx)
}

// ListPrompts returns the prompts the bridge serves.
func (l *Link) ListPrompts(ctx context.Context) ([]mcp.Prompt, error) {
	return l.listPrompts(ctx)
}

// CallTool invokes a tool by name.
func (l *Link) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	return l.callTool(ctx, name, args)
}

// ReadResource fetches a resource's contents by URI.
func (l *Link) ReadResource(ctx context.Context, uri string) ([]mcp.ResourceContents, error) {
	return l.readResource(ctx, uri)
}

// GetPrompt renders a prompt with the given arguments.
func (l *Link) GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	return l.getPrompt(ctx, name, args)
}

// Close shuts the connection down.
func (l *Link) Close() error {
	if l.close == nil {
		return nil
	}
	return l.close()
}
