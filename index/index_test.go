package index

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recall/core"
)

func testDoc(id, userID string) *core.Document {
	return &core.Document{ID: id, Title: "title " + id, Content: "content", UserID: userID}
}

func TestInsertAndGet(t *testing.T) {
	ix := New(3)

	err := ix.Insert("d1", []float32{1, 0, 0}, testDoc("d1", "alice"))
	require.NoError(t, err)
	assert.Equal(t, 1, ix.Len())

	doc, ok := ix.Get("d1")
	require.True(t, ok)
	assert.Equal(t, "title d1", doc.Title)

	_, ok = ix.Get("missing")
	assert.False(t, ok)
}

func TestInsertRejectsWrongDimension(t *testing.T) {
	ix := New(3)

	err := ix.Insert("d1", []float32{1, 0}, testDoc("d1", ""))
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	err = ix.Insert("d1", []float32{1, 0, 0, 0}, testDoc("d1", ""))
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	err = ix.Insert("", []float32{1, 0, 0}, testDoc("d1", ""))
	assert.ErrorIs(t, err, core.ErrEmptyID)
}

func TestInsertCopiesEmbedding(t *testing.T) {
	ix := New(3)

	vec := []float32{1, 0, 0}
	require.NoError(t, ix.Insert("d1", vec, testDoc("d1", "")))
	vec[0] = 0

	candidates := ix.Scan([]float32{1, 0, 0}, nil)
	require.Len(t, candidates, 1)
	assert.InDelta(t, 1.0, candidates[0].Similarity, 1e-6)
}

func TestInsertReplacesExisting(t *testing.T) {
	ix := New(3)

	require.NoError(t, ix.Insert("d1", []float32{1, 0, 0}, testDoc("d1", "")))
	require.NoError(t, ix.Insert("d1", []float32{0, 1, 0}, testDoc("d1", "")))
	assert.Equal(t, 1, ix.Len())

	candidates := ix.Scan([]float32{0, 1, 0}, nil)
	require.Len(t, candidates, 1)
	assert.InDelta(t, 1.0, candidates[0].Similarity, 1e-6)
}

func TestUpdate(t *testing.T) {
	ix := New(3)
	require.NoError(t, ix.Insert("d1", []float32{1, 0, 0}, testDoc("d1", "alice")))

	title := "renamed"
	priority := 7
	err := ix.Update("d1", Patch{
		Embedding: []float32{0, 0, 1},
		Title:     &title,
		Priority:  &priority,
	})
	require.NoError(t, err)

	doc, ok := ix.Get("d1")
	require.True(t, ok)
	assert.Equal(t, "renamed", doc.Title)
	assert.Equal(t, 7, doc.Priority)
	assert.Equal(t, "alice", doc.UserID)

	candidates := ix.Scan([]float32{0, 0, 1}, nil)
	require.Len(t, candidates, 1)
	assert.InDelta(t, 1.0, candidates[0].Similarity, 1e-6)
}

func TestUpdateMissing(t *testing.T) {
	ix := New(3)
	err := ix.Update("ghost", Patch{})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateRejectsWrongDimension(t *testing.T) {
	ix := New(3)
	require.NoError(t, ix.Insert("d1", []float32{1, 0, 0}, testDoc("d1", "")))

	err := ix.Update("d1", Patch{Embedding: []float32{1}})
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestRemove(t *testing.T) {
	ix := New(3)
	require.NoError(t, ix.Insert("d1", []float32{1, 0, 0}, testDoc("d1", "")))

	assert.True(t, ix.Remove("d1"))
	assert.False(t, ix.Remove("d1"))
	assert.Equal(t, 0, ix.Len())
}

func TestScanWithFilter(t *testing.T) {
	ix := New(3)
	aliceDoc := testDoc("d1", "alice")
	aliceDoc.Tags = []string{"go", "search"}
	bobDoc := testDoc("d2", "bob")

	require.NoError(t, ix.Insert("d1", []float32{1, 0, 0}, aliceDoc))
	require.NoError(t, ix.Insert("d2", []float32{0, 1, 0}, bobDoc))

	all := ix.Scan([]float32{1, 0, 0}, nil)
	assert.Len(t, all, 2)

	onlyAlice := ix.Scan([]float32{1, 0, 0}, ByUser("alice"))
	require.Len(t, onlyAlice, 1)
	assert.Equal(t, "d1", onlyAlice[0].ID)

	tagged := ix.Scan([]float32{1, 0, 0}, ByTags("go", "search"))
	require.Len(t, tagged, 1)
	assert.Equal(t, "d1", tagged[0].ID)

	none := ix.Scan([]float32{1, 0, 0}, ByTags("go", "rust"))
	assert.Empty(t, none)
}

func TestFromOptions(t *testing.T) {
	assert.Nil(t, FromOptions(core.SearchOptions{}))

	f := FromOptions(core.SearchOptions{UserID: "alice", Category: "note"})
	require.NotNil(t, f)

	doc := testDoc("d1", "alice")
	doc.Category = "note"
	assert.True(t, f(doc))

	doc.Category = "journal"
	assert.False(t, f(doc))
}

func TestConcurrentAccess(t *testing.T) {
	ix := New(4)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				_ = ix.Insert(id, []float32{1, 0, 0, 0}, testDoc(id, "u"))
				ix.Scan([]float32{1, 0, 0, 0}, nil)
				ix.Remove(id)
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 0, ix.Len())
}
