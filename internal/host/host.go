// Package host is the boundary between the bridge and the CAD application.
// Handlers never touch the CAD SDK directly; they call Host, and a real
// deployment implements Host against the vendor API while standalone serving
// and tests use Memory.
package host

import (
	"context"
	"errors"
)

var (
	ErrNoDocument      = errors.New("no active document")
	ErrNoDesign        = errors.New("no active design")
	ErrUnknownPlane    = errors.New("unknown plane")
	ErrParameterExists = errors.New("parameter already exists")
)

// DocumentInfo describes the document open in the host. Unsaved documents
// report Path "Unsaved".
type DocumentInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// Component is one node of the design tree.
type Component struct {
	Name        string          `json:"name"`
	Occurrences []Occurrence    `json:"occurrences"`
	Bodies      []Body          `json:"bodies"`
	Sketches    []SketchSummary `json:"sketches"`
	Features    []Feature       `json:"features"`
}

type Occurrence struct {
	Name      string `json:"name"`
	Component string `json:"component"`
}

type Body struct {
	Name    string `json:"name"`
	IsValid bool   `json:"isValid"`
	IsSolid bool   `json:"isSolid"`
}

type SketchSummary struct {
	Name   string `json:"name"`
	Curves int    `json:"sketchCurves"`
	Points int    `json:"sketchPoints"`
}

type Feature struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Parameter is a user parameter of the active design. Value is the evaluated
// expression in internal units.
type Parameter struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Expression string  `json:"expression"`
	Comment    string  `json:"comment"`
}

// SketchInfo reports a sketch created by CreateSketch.
type SketchInfo struct {
	Name  string `json:"sketch_name"`
	Plane string `json:"plane"`
}

// Planes accepted by CreateSketch.
const (
	PlaneXY = "XY"
	PlaneXZ = "XZ"
	PlaneYZ = "YZ"
)

// Host exposes the CAD operations the bridge serves. Implementations must be
// safe for concurrent use: the HTTP transport and the relay monitor call in
// from separate goroutines.
type Host interface {
	// Version identifies the host application build.
	Version() string

	ActiveDocument(ctx context.Context) (DocumentInfo, error)
	DesignStructure(ctx context.Context) (Component, error)
	Parameters(ctx context.Context) ([]Parameter, error)

	// ShowMessage displays text in the host UI.
	ShowMessage(ctx context.Context, text string) error

	// CreateSketch adds a sketch on one of the base construction planes
	// (PlaneXY, PlaneXZ, PlaneYZ).
	CreateSketch(ctx context.Context, plane string) (SketchInfo, error)

	// CreateParameter adds a user parameter. The Name and Expression fields
	// are required; Value is computed from the expression.
	CreateParameter(ctx context.Context, p Parameter) (Parameter, error)
}
