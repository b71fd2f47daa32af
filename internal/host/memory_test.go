package host

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryActiveDocument(t *testing.T) {
	m := NewMemory()

	doc, err := m.ActiveDocument(context.Background())
	if err != nil {
		t.Fatalf("ActiveDocument() error = %v", err)
	}
	if doc.Name != "Untitled" || doc.Path != "Unsaved" {
		t.Fatalf("ActiveDocument() = %+v, want seeded unsaved document", doc)
	}
}

func TestMemoryActiveDocumentNoDocument(t *testing.T) {
	m := NewMemory()
	m.CloseDocument()

	_, err := m.ActiveDocument(context.Background())
	if !errors.Is(err, ErrNoDocument) {
		t.Fatalf("ActiveDocument() error = %v, want ErrNoDocument", err)
	}
}

func TestMemoryCreateSketch(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first, err := m.CreateSketch(ctx, PlaneXY)
	if err != nil {
		t.Fatalf("CreateSketch(XY) error = %v", err)
	}
	if first.Name != "Sketch1" || first.Plane != "XY" {
		t.Fatalf("CreateSketch(XY) = %+v, want Sketch1 on XY", first)
	}

	second, err := m.CreateSketch(ctx, PlaneYZ)
	if err != nil {
		t.Fatalf("CreateSketch(YZ) error = %v", err)
	}
	if second.Name != "Sketch2" {
		t.Fatalf("CreateSketch(YZ) name = %q, want Sketch2", second.Name)
	}

	structure, err := m.DesignStructure(ctx)
	if err != nil {
		t.Fatalf("DesignStructure() error = %v", err)
	}
	if len(structure.Sketches) != 2 {
		t.Fatalf("DesignStructure() sketches = %d, want 2", len(structure.Sketches))
	}
}

func TestMemoryCreateSketchUnknownPlane(t *testing.T) {
	m := NewMemory()

	_, err := m.CreateSketch(context.Background(), "ZZ")
	if !errors.Is(err, ErrUnknownPlane) {
		t.Fatalf("CreateSketch(ZZ) error = %v, want ErrUnknownPlane", err)
	}
}

func TestMemoryCreateParameter(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	created, err := m.CreateParameter(ctx, Parameter{
		Name:       "Width",
		Expression: "10 mm",
		Unit:       "mm",
		Comment:    "outer width",
	})
	if err != nil {
		t.Fatalf("CreateParameter() error = %v", err)
	}
	if created.Value != 10 {
		t.Fatalf("CreateParameter() value = %v, want 10", created.Value)
	}

	params, err := m.Parameters(ctx)
	if err != nil {
		t.Fatalf("Parameters() error = %v", err)
	}
	if len(params) != 1 || params[0].Name != "Width" {
		t.Fatalf("Parameters() = %+v, want [Width]", params)
	}
}

func TestMemoryCreateParameterDuplicate(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.CreateParameter(ctx, Parameter{Name: "Width", Expression: "10"}); err != nil {
		t.Fatalf("CreateParameter() error = %v", err)
	}
	_, err := m.CreateParameter(ctx, Parameter{Name: "Width", Expression: "12"})
	if !errors.Is(err, ErrParameterExists) {
		t.Fatalf("duplicate CreateParameter() error = %v, want ErrParameterExists", err)
	}
}

func TestMemoryCreateParameterBadExpression(t *testing.T) {
	m := NewMemory()

	_, err := m.CreateParameter(context.Background(), Parameter{Name: "Bad", Expression: "ten"})
	if err == nil {
		t.Fatal("CreateParameter(ten) error = nil, want invalid expression")
	}
}

func TestMemoryShowMessageRecords(t *testing.T) {
	m := NewMemory()

	if err := m.ShowMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("ShowMessage() error = %v", err)
	}
	got := m.Messages()
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("Messages() = %v, want [hello]", got)
	}
}
