package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/lydakis/cadbridge/internal/host"
)

func TestDispatchListActions(t *testing.T) {
	c := New(host.NewMemory())
	ctx := context.Background()

	res, err := c.Dispatch(ctx, "list_resources", nil)
	if err != nil {
		t.Fatalf("Dispatch(list_resources) error = %v", err)
	}
	uris, ok := res.([]string)
	if !ok || len(uris) != 3 {
		t.Fatalf("Dispatch(list_resources) = %v, want 3 URIs", res)
	}
	if uris[0] != URIActiveDocument {
		t.Fatalf("first resource = %q, want %q", uris[0], URIActiveDocument)
	}

	res, err = c.Dispatch(ctx, "list_tools", nil)
	if err != nil {
		t.Fatalf("Dispatch(list_tools) error = %v", err)
	}
	tools, ok := res.([]Info)
	if !ok || len(tools) != 3 {
		t.Fatalf("Dispatch(list_tools) = %v, want 3 tools", res)
	}
	if tools[0].Name != "message_box" || tools[0].Description == "" {
		t.Fatalf("first tool = %+v, want message_box with description", tools[0])
	}

	res, err = c.Dispatch(ctx, "list_prompts", nil)
	if err != nil {
		t.Fatalf("Dispatch(list_prompts) error = %v", err)
	}
	prompts, ok := res.([]Info)
	if !ok || len(prompts) != 2 {
		t.Fatalf("Dispatch(list_prompts) = %v, want 2 prompts", res)
	}
}

func TestDispatchMessageBox(t *testing.T) {
	m := host.NewMemory()
	c := New(m)

	res, err := c.Dispatch(context.Background(), "message_box", map[string]any{"text": "hello"})
	if err != nil {
		t.Fatalf("Dispatch(message_box) error = %v", err)
	}
	if res != nil {
		t.Fatalf("Dispatch(message_box) result = %v, want nil", res)
	}
	if got := m.Messages(); len(got) != 1 || got[0] != "hello" {
		t.Fatalf("host messages = %v, want [hello]", got)
	}
}

func TestDispatchMessageBoxMissingText(t *testing.T) {
	c := New(host.NewMemory())

	_, err := c.Dispatch(context.Background(), "message_box", map[string]any{})
	if err == nil {
		t.Fatal("Dispatch(message_box) without text: error = nil, want missing argument")
	}
}

func TestDispatchUnsupportedAction(t *testing.T) {
	m := host.NewMemory()
	c := New(m)

	_, err := c.Dispatch(context.Background(), "does_not_exist", map[string]any{})
	if !errors.Is(err, ErrUnsupportedAction) {
		t.Fatalf("Dispatch(does_not_exist) error = %v, want ErrUnsupportedAction", err)
	}
	if err.Error() != "unsupported action" {
		t.Fatalf("error message = %q, want %q", err.Error(), "unsupported action")
	}
	if len(m.Messages()) != 0 {
		t.Fatal("unsupported action reached the host")
	}
}

func TestDispatchCreateSketchDefaultsPlane(t *testing.T) {
	c := New(host.NewMemory())

	res, err := c.Dispatch(context.Background(), "create_new_sketch", map[string]any{})
	if err != nil {
		t.Fatalf("Dispatch(create_new_sketch) error = %v", err)
	}
	info, ok := res.(host.SketchInfo)
	if !ok {
		t.Fatalf("result type = %T, want host.SketchInfo", res)
	}
	if info.Plane != host.PlaneXY {
		t.Fatalf("plane = %q, want XY default", info.Plane)
	}
}

func TestDispatchCreateParameter(t *testing.T) {
	c := New(host.NewMemory())
	ctx := context.Background()

	res, err := c.Dispatch(ctx, "create_parameter", map[string]any{
		"name":       "Width",
		"expression": "10 mm",
		"unit":       "mm",
	})
	if err != nil {
		t.Fatalf("Dispatch(create_parameter) error = %v", err)
	}
	p, ok := res.(host.Parameter)
	if !ok || p.Name != "Width" || p.Value != 10 {
		t.Fatalf("result = %+v, want Width=10", res)
	}

	_, err = c.Dispatch(ctx, "create_parameter", map[string]any{
		"name":       "Width",
		"expression": "12 mm",
	})
	if !errors.Is(err, host.ErrParameterExists) {
		t.Fatalf("duplicate create_parameter error = %v, want ErrParameterExists", err)
	}
}

func TestPromptRenderIncludesDescription(t *testing.T) {
	c := New(host.NewMemory())

	for _, p := range c.Prompts() {
		result := p.Render("a bracket with two holes")
		if len(result.Messages) == 0 {
			t.Fatalf("prompt %q rendered no messages", p.Def.Name)
		}
	}
}

func TestListingsMatchDefinitions(t *testing.T) {
	c := New(host.NewMemory())

	if got, want := len(c.ToolInfos()), len(c.Tools()); got != want {
		t.Fatalf("ToolInfos() = %d entries, want %d", got, want)
	}
	if got, want := len(c.PromptInfos()), len(c.Prompts()); got != want {
		t.Fatalf("PromptInfos() = %d entries, want %d", got, want)
	}
	if got, want := len(c.ResourceURIs()), len(c.Resources()); got != want {
		t.Fatalf("ResourceURIs() = %d entries, want %d", got, want)
	}
}
