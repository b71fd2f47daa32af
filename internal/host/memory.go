package host

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Memory is an in-memory Host. The zero value has no open document; NewMemory
// seeds a document and an empty root component, which is what standalone
// serving wants.
type Memory struct {
	mu       sync.Mutex
	doc      *DocumentInfo
	root     *Component
	params   []Parameter
	messages []string
	sketchN  int
}

// NewMemory returns a Memory with a seeded unsaved document.
func NewMemory() *Memory {
	return &Memory{
		doc: &DocumentInfo{
			Name: "Untitled",
			Path: "Unsaved",
			Type: "design",
		},
		root: &Component{
			Name: "Root",
			Bodies: []Body{
				{Name: "Body1", IsValid: true, IsSolid: true},
			},
		},
	}
}

func (m *Memory) Version() string {
	return "standalone"
}

func (m *Memory) ActiveDocument(ctx context.Context) (DocumentInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return DocumentInfo{}, ErrNoDocument
	}
	return *m.doc, nil
}

func (m *Memory) DesignStructure(ctx context.Context) (Component, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		return Component{}, ErrNoDesign
	}
	return cloneComponent(*m.root), nil
}

func (m *Memory) Parameters(ctx context.Context) ([]Parameter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		return nil, ErrNoDesign
	}
	out := make([]Parameter, len(m.params))
	copy(out, m.params)
	return out, nil
}

func (m *Memory) ShowMessage(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, text)
	return nil
}

func (m *Memory) CreateSketch(ctx context.Context, plane string) (SketchInfo, error) {
	switch plane {
	case PlaneXY, PlaneXZ, PlaneYZ:
	default:
		return SketchInfo{}, fmt.Errorf("%w %q", ErrUnknownPlane, plane)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		return SketchInfo{}, ErrNoDesign
	}
	m.sketchN++
	info := SketchInfo{
		Name:  fmt.Sprintf("Sketch%d", m.sketchN),
		Plane: plane,
	}
	m.root.Sketches = append(m.root.Sketches, SketchSummary{Name: info.Name})
	return info, nil
}

func (m *Memory) CreateParameter(ctx context.Context, p Parameter) (Parameter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		return Parameter{}, ErrNoDesign
	}
	for _, existing := range m.params {
		if existing.Name == p.Name {
			return Parameter{}, fmt.Errorf("%w: %q", ErrParameterExists, p.Name)
		}
	}

	value, err := evalExpression(p.Expression)
	if err != nil {
		return Parameter{}, err
	}
	p.Value = value
	m.params = append(m.params, p)
	return p, nil
}

// Messages returns every text passed to ShowMessage, oldest first.
func (m *Memory) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.messages))
	copy(out, m.messages)
	return out
}

// CloseDocument drops the seeded document and design so error paths can be
// exercised.
func (m *Memory) CloseDocument() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = nil
	m.root = nil
}

// evalExpression reads the numeric prefix of a parameter expression such as
// "10 mm" or "2.5". The host application evaluates full expressions; the
// in-memory host only needs a value consistent with what it was given.
func evalExpression(expr string) (float64, error) {
	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty expression")
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid expression %q", expr)
	}
	return value, nil
}

func cloneComponent(c Component) Component {
	out := c
	out.Occurrences = append([]Occurrence(nil), c.Occurrences...)
	out.Bodies = append([]Body(nil), c.Bodies...)
	out.Sketches = append([]SketchSummary(nil), c.Sketches...)
	out.Features = append([]Feature(nil), c.Features...)
	return out
}
