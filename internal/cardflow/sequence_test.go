package cardflow

import (
	"testing"

	"github.com/mark3labs/mailman/internal/card"
	"github.com/stretchr/testify/require"
)

func TestSequence_Empty(t *testing.T) {
	t.Parallel()

	s := NewSequence()
	_, ok := s.Head()
	require.False(t, ok)
	_, ok = s.Tail()
	require.False(t, ok)
	require.Equal(t, 0, s.Len())
}

func TestSequence_WalkForwardVisitsInsertionOrder(t *testing.T) {
	t.Parallel()

	for n := 1; n <= len(DocumentFlow); n++ {
		s := NewSequence()
		for _, name := range DocumentFlow[:n] {
			s.Add(name)
		}

		head, ok := s.Head()
		require.True(t, ok)
		_, hasPrev := s.Previous(head)
		require.False(t, hasPrev, "head must have no previous")

		tail, ok := s.Tail()
		require.True(t, ok)
		_, hasNext := s.Next(tail)
		require.False(t, hasNext, "tail must have no next")

		var visited []card.Name
		for node, ok := head, true; ok; node, ok = s.Next(node) {
			visited = append(visited, node.Name)
		}
		require.Equal(t, DocumentFlow[:n], visited)
	}
}

func TestSequence_WalkBackward(t *testing.T) {
	t.Parallel()

	s := NewSequence(card.Title, card.Sheet, card.Row)
	tail, _ := s.Tail()

	var visited []card.Name
	for node, ok := tail, true; ok; node, ok = s.Previous(node) {
		visited = append(visited, node.Name)
	}
	require.Equal(t, []card.Name{card.Row, card.Sheet, card.Title}, visited)
}

func TestSequence_NamesIsCopy(t *testing.T) {
	t.Parallel()

	s := NewSequence(card.Title, card.Sheet)
	names := s.Names()
	names[0] = card.SendNow

	head, _ := s.Head()
	require.Equal(t, card.Title, head.Name)
}
