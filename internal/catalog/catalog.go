// Package catalog is the single registration table for everything the bridge
// serves. The MCP transports and the file relay both dispatch through it, so
// the two surfaces always expose the same resources, tools, and prompts.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lydakis/cadbridge/internal/host"
)

// ErrUnsupportedAction is returned by Dispatch for action names the catalog
// does not know. Its message is the relay's wire-level error string.
var ErrUnsupportedAction = errors.New("unsupported action")

// Resource URIs served by the bridge.
const (
	URIActiveDocument  = "cad://active-document-info"
	URIDesignStructure = "cad://design-structure"
	URIParameters      = "cad://parameters"
)

// Handler executes one action against the host. Results must be
// JSON-marshalable; nil means the action has nothing to report.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool pairs an MCP tool definition with its handler.
type Tool struct {
	Def    mcp.Tool
	Handle Handler
}

// Resource pairs an MCP resource definition with its reader.
type Resource struct {
	Def  mcp.Resource
	Read func(ctx context.Context) (any, error)
}

// Prompt pairs an MCP prompt definition with its renderer.
type Prompt struct {
	Def    mcp.Prompt
	Render func(description string) *mcp.GetPromptResult
}

// Info is the name/description pair the listing actions return.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog holds the registrations for one host.
type Catalog struct {
	resources []Resource
	tools     []Tool
	prompts   []Prompt
}

// New builds the catalog over h.
func New(h host.Host) *Catalog {
	return &Catalog{
		resources: buildResources(h),
		tools:     buildTools(h),
		prompts:   buildPrompts(),
	}
}

func (c *Catalog) Resources() []Resource { return c.resources }
func (c *Catalog) Tools() []Tool         { return c.tools }
func (c *Catalog) Prompts() []Prompt     { return c.prompts }

// ResourceURIs returns the served resource URIs in registration order.
func (c *Catalog) ResourceURIs() []string {
	out := make([]string, 0, len(c.resources))
	for _, r := range c.resources {
		out = append(out, r.Def.URI)
	}
	return out
}

// ToolInfos returns name/description pairs for the served tools.
func (c *Catalog) ToolInfos() []Info {
	out := make([]Info, 0, len(c.tools))
	for _, t := range c.tools {
		out = append(out, Info{Name: t.Def.Name, Description: t.Def.Description})
	}
	return out
}

// PromptInfos returns name/description pairs for the served prompts.
func (c *Catalog) PromptInfos() []Info {
	out := make([]Info, 0, len(c.prompts))
	for _, p := range c.prompts {
		out = append(out, Info{Name: p.Def.Name, Description: p.Def.Description})
	}
	return out
}

// Dispatch executes a relay action: one of the listing actions or a tool
// name. Unknown names return ErrUnsupportedAction without touching the host.
func (c *Catalog) Dispatch(ctx context.Context, action string, args map[string]any) (any, error) {
	switch action {
	case "list_resources":
		return c.ResourceURIs(), nil
	case "list_tools":
		return c.ToolInfos(), nil
	case "list_prompts":
		return c.PromptInfos(), nil
	}
	for _, t := range c.tools {
		if t.Def.Name == action {
			return t.Handle(ctx, args)
		}
	}
	return nil, ErrUnsupportedAction
}

func buildResources(h host.Host) []Resource {
	return []Resource{
		{
			Def: mcp.NewResource(URIActiveDocument, "active-document-info",
				mcp.WithResourceDescription("Information about the active document"),
				mcp.WithMIMEType("application/json"),
			),
			Read: func(ctx context.Context) (any, error) {
				return h.ActiveDocument(ctx)
			},
		},
		{
			Def: mcp.NewResource(URIDesignStructure, "design-structure",
				mcp.WithResourceDescription("Component tree of the active design"),
				mcp.WithMIMEType("application/json"),
			),
			Read: func(ctx context.Context) (any, error) {
				return h.DesignStructure(ctx)
			},
		},
		{
			Def: mcp.NewResource(URIParameters, "parameters",
				mcp.WithResourceDescription("User parameters of the active design"),
				mcp.WithMIMEType("application/json"),
			),
			Read: func(ctx context.Context) (any, error) {
				return h.Parameters(ctx)
			},
		},
	}
}

func buildTools(h host.Host) []Tool {
	return []Tool{
		{
			Def: mcp.NewTool("message_box",
				mcp.WithDescription("Display a message box in the host application"),
				mcp.WithString("text",
					mcp.Required(),
					mcp.Description("Message to display"),
				),
			),
			Handle: func(ctx context.Context, args map[string]any) (any, error) {
				text, err := requireString(args, "text")
				if err != nil {
					return nil, err
				}
				if err := h.ShowMessage(ctx, text); err != nil {
					return nil, err
				}
				return nil, nil
			},
		},
		{
			Def: mcp.NewTool("create_new_sketch",
				mcp.WithDescription("Create a new sketch on the specified construction plane"),
				mcp.WithString("plane_name",
					mcp.Description("Construction plane: XY, XZ, or YZ (default XY)"),
				),
			),
			Handle: func(ctx context.Context, args map[string]any) (any, error) {
				plane, err := optionalString(args, "plane_name", host.PlaneXY)
				if err != nil {
					return nil, err
				}
				return h.CreateSketch(ctx, plane)
			},
		},
		{
			Def: mcp.NewTool("create_parameter",
				mcp.WithDescription("Create a new user parameter in the active design"),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Parameter name, unique within the design"),
				),
				mcp.WithString("expression",
					mcp.Required(),
					mcp.Description("Value expression, for example \"10 mm\""),
				),
				mcp.WithString("unit",
					mcp.Description("Unit of measure"),
				),
				mcp.WithString("comment",
					mcp.Description("Optional comment"),
				),
			),
			Handle: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				expression, err := requireString(args, "expression")
				if err != nil {
					return nil, err
				}
				unit, err := optionalString(args, "unit", "")
				if err != nil {
					return nil, err
				}
				comment, err := optionalString(args, "comment", "")
				if err != nil {
					return nil, err
				}
				return h.CreateParameter(ctx, host.Parameter{
					Name:       name,
					Expression: expression,
					Unit:       unit,
					Comment:    comment,
				})
			},
		},
	}
}

func buildPrompts() []Prompt {
	return []Prompt{
		{
			Def: mcp.NewPrompt("create_sketch_prompt",
				mcp.WithPromptDescription("Guidance for creating a sketch from a description"),
				mcp.WithArgument("description",
					mcp.ArgumentDescription("What the sketch should contain"),
					mcp.RequiredArgument(),
				),
			),
			Render: func(description string) *mcp.GetPromptResult {
				text := fmt.Sprintf("You are an expert CAD modeler helping set up a new sketch. "+
					"Available construction planes are XY, XZ, and YZ; be specific about which plane to use and which sketch entities to create.\n\n"+
					"I want to create a sketch with these requirements: %s\n\n"+
					"Provide step-by-step instructions for creating this sketch.", description)
				return mcp.NewGetPromptResult(
					"Guidance for creating a sketch from a description",
					[]mcp.PromptMessage{
						mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
					},
				)
			},
		},
		{
			Def: mcp.NewPrompt("parameter_setup_prompt",
				mcp.WithPromptDescription("Guidance for setting up design parameters from a description"),
				mcp.WithArgument("description",
					mcp.ArgumentDescription("What the parameters should drive"),
					mcp.RequiredArgument(),
				),
			),
			Render: func(description string) *mcp.GetPromptResult {
				text := fmt.Sprintf("You are an expert in parametric design helping set up user parameters. "+
					"Suggest appropriate parameters with values, units, and purposes.\n\n"+
					"I want to set up parameters for: %s\n\n"+
					"List each parameter with a name, an expression, and a comment explaining it.", description)
				return mcp.NewGetPromptResult(
					"Guidance for setting up design parameters from a description",
					[]mcp.PromptMessage{
						mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
					},
				)
			},
		},
	}
}

func requireString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	return s, nil
}

func optionalString(args map[string]any, key, fallback string) (string, error) {
	v, ok := args[key]
	if !ok {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	if s == "" {
		return fallback, nil
	}
	return s, nil
}
