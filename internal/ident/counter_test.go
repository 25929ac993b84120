// internal/ident/counter_test.go
package ident

import (
	"sync"
	"testing"

	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_NextAndReset(t *testing.T) {
	c := &Counter{}
	assert.Equal(t, uint64(1), c.Next())
	assert.Equal(t, uint64(2), c.Next())
	c.Reset()
	assert.Equal(t, uint64(1), c.Next())
}

func TestCounter_Concurrent(t *testing.T) {
	c := &Counter{}
	const n = 100
	var wg sync.WaitGroup
	seen := sync.Map{}
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, dup := seen.LoadOrStore(c.Next(), struct{}{})
			assert.False(t, dup)
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(n+1), c.Next())
}

func TestGenerateUnique_SkipsTaken(t *testing.T) {
	c := &Counter{}
	taken := map[string]bool{"anon1": true, "anon2": true}

	key, err := GenerateUnique(c, "person", "anon", func(object string) bool { return taken[object] })
	require.NoError(t, err)
	assert.Equal(t, Key{Schema: "person", Object: "anon3"}, key)
}

func TestGenerateUnique_DefaultDisambiguator(t *testing.T) {
	c := &Counter{}
	key, err := GenerateUnique(c, "person", "", func(string) bool { return false })
	require.NoError(t, err)
	assert.Equal(t, "person_1", key.Object)
}

func TestGenerateUnique_InvalidSchema(t *testing.T) {
	_, err := GenerateUnique(&Counter{}, "bad schema", "", func(string) bool { return false })
	assert.ErrorIs(t, err, modelerr.ErrInvalidName)
}
