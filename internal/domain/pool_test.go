package domain

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poolWithWords(words ...string) *WordPool {
	wp := NewWordPool(rand.New(rand.NewSource(7)))
	wp.Build([]*Player{{Name: "A", Words: words}})
	wp.StartRound()
	return wp
}

func TestWordPool_BuildConcatenatesPlayers(t *testing.T) {
	wp := NewWordPool(rand.New(rand.NewSource(1)))
	wp.Build([]*Player{
		{Name: "A", Words: []string{"cat", "dog"}},
		{Name: "B", Words: []string{"sun"}},
		{Name: "C"},
	})

	assert.Equal(t, 3, wp.Total())
	assert.Equal(t, 0, wp.Size(), "hat stays empty until a round starts")

	wp.StartRound()
	assert.Equal(t, 3, wp.Size())
}

func TestWordPool_DrawUntilEmpty(t *testing.T) {
	wp := poolWithWords("cat", "dog", "sun", "moon")

	var drawn []string
	for !wp.Empty() {
		w, err := wp.Draw()
		require.NoError(t, err)
		drawn = append(drawn, w)
	}

	sort.Strings(drawn)
	assert.Equal(t, []string{"cat", "dog", "moon", "sun"}, drawn)

	_, err := wp.Draw()
	assert.ErrorIs(t, err, ErrPoolEmpty)
	assert.Equal(t, KindExhausted, KindOf(err))
}

func TestWordPool_SkipKeepsWordDrawable(t *testing.T) {
	wp := poolWithWords("cat", "dog")

	w, err := wp.Draw()
	require.NoError(t, err)
	assert.Equal(t, 1, wp.Size())

	wp.Skip(w)
	assert.Equal(t, 2, wp.Size())

	seen := map[string]bool{}
	for !wp.Empty() {
		d, err := wp.Draw()
		require.NoError(t, err)
		seen[d] = true
	}
	assert.True(t, seen[w])
}

func TestWordPool_StartRoundRefillsFromFullPool(t *testing.T) {
	wp := poolWithWords("a", "b", "c")
	for !wp.Empty() {
		_, err := wp.Draw()
		require.NoError(t, err)
	}

	wp.StartRound()
	assert.Equal(t, 3, wp.Size())
	assert.Equal(t, 3, wp.Total())
}
