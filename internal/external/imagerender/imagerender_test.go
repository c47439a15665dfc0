package imagerender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/examforge/examforge/internal/external/objectstore"
)

func TestRenderUploadsPlaceholderAndReturnsURL(t *testing.T) {
	store := objectstore.NewMemStore("https://assets.example.com")
	r := NewStubRenderer(store)

	result, err := r.Render(context.Background(), "right triangle with legs 3 and 4")

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.ImageURL, "https://assets.example.com/diagrams/")
}

func TestRenderIsDeterministicForSameDescription(t *testing.T) {
	store := objectstore.NewMemStore("")
	r := NewStubRenderer(store)

	a, _ := r.Render(context.Background(), "a square")
	b, _ := r.Render(context.Background(), "a square")

	assert.Equal(t, a.ImageURL, b.ImageURL)
}

func TestRenderRejectsEmptyDescription(t *testing.T) {
	store := objectstore.NewMemStore("")
	r := NewStubRenderer(store)

	result, err := r.Render(context.Background(), "")

	assert.NoError(t, err)
	assert.False(t, result.Success)
}
