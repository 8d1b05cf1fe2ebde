package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recall/core"
)

func TestHighlightTitleAndSnippets(t *testing.T) {
	doc := &core.Document{
		Title:   "Go concurrency patterns",
		Content: "Goroutines are cheap. Channels connect goroutines. Nothing here. Select multiplexes channels.",
	}

	h := highlight(doc, "goroutines channels")
	require.NotNil(t, h)
	assert.Equal(t, "Go concurrency patterns", doc.Title, "document must not be mutated")
	assert.Empty(t, h.Title)
	require.Len(t, h.Snippets, 3)
	assert.Equal(t, "**Goroutines** are cheap.", h.Snippets[0])
	assert.Equal(t, "**Channels** connect **goroutines**.", h.Snippets[1])
	assert.Equal(t, "Select multiplexes **channels**.", h.Snippets[2])
}

func TestHighlightTitleMatch(t *testing.T) {
	doc := &core.Document{Title: "Concurrency in Go", Content: "no relevant text"}

	h := highlight(doc, "concurrency")
	require.NotNil(t, h)
	assert.Equal(t, "**Concurrency** in Go", h.Title)
	assert.Empty(t, h.Snippets)
}

func TestHighlightWholeWordOnly(t *testing.T) {
	doc := &core.Document{Content: "concatenate strings."}
	assert.Nil(t, highlight(doc, "cat"))
}

func TestHighlightSnippetCap(t *testing.T) {
	doc := &core.Document{
		Content: "go one. go two. go three. go four. go five.",
	}

	h := highlight(doc, "go")
	require.NotNil(t, h)
	assert.Len(t, h.Snippets, maxHighlightSnippets)
}

func TestHighlightNoMatch(t *testing.T) {
	doc := &core.Document{Title: "alpha", Content: "beta."}
	assert.Nil(t, highlight(doc, "gamma"))
	assert.Nil(t, highlight(doc, ""))
}
