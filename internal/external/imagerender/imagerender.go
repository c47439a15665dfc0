// Package imagerender is the out-of-scope image-rendering collaborator
// (spec.md §1 Non-goals): a Go interface plus a deterministic stub.
// Grounded on original_source/agents/orchestrator.py::_generate_image,
// which sends a "generate_diagram" task to an Image Agent and expects
// back an {success, image_url} shape — real geometry/diagram rendering is
// out of scope, so the stub uploads a placeholder SVG via objectstore.
package imagerender

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/examforge/examforge/internal/external/objectstore"
)

// Result mirrors _generate_image's returned shape.
type Result struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"image_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Renderer turns a question's image description into a hosted image.
type Renderer interface {
	Render(ctx context.Context, description string) (Result, error)
}

// StubRenderer deterministically "renders" a description into a
// placeholder SVG and uploads it via an objectstore.Store, standing in
// for a real diagram-generation backend.
type StubRenderer struct {
	store objectstore.Store
}

// NewStubRenderer wires a StubRenderer to an object store.
func NewStubRenderer(store objectstore.Store) *StubRenderer {
	return &StubRenderer{store: store}
}

func (r *StubRenderer) Render(ctx context.Context, description string) (Result, error) {
	if description == "" {
		return Result{Success: false, Error: "empty image description"}, nil
	}

	key := fmt.Sprintf("diagrams/%s.svg", contentHash(description))
	svg := placeholderSVG(description)

	url, err := r.store.Put(ctx, key, []byte(svg), "image/svg+xml")
	if err != nil {
		return Result{Success: false, Error: err.Error()}, nil
	}
	return Result{Success: true, ImageURL: url}, nil
}

func contentHash(description string) string {
	sum := sha1.Sum([]byte(description))
	return hex.EncodeToString(sum[:])[:16]
}

func placeholderSVG(description string) string {
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300"><text x="10" y="20">%s</text></svg>`,
		description,
	)
}
