package cardflow

import "github.com/mark3labs/mailman/internal/card"

// Node is a position in a Sequence.
type Node struct {
	Index int
	Name  card.Name
}

// Sequence is the fixed order of cards in a flow. Cards are appended once
// while the flow is built and never reordered or removed.
type Sequence struct {
	names []card.Name
}

// NewSequence returns a sequence holding names in order.
func NewSequence(names ...card.Name) *Sequence {
	s := &Sequence{}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add appends name after the current tail.
func (s *Sequence) Add(name card.Name) {
	s.names = append(s.names, name)
}

// Len returns the number of nodes.
func (s *Sequence) Len() int {
	return len(s.names)
}

// Head returns the first node. ok is false for an empty sequence.
func (s *Sequence) Head() (Node, bool) {
	return s.At(0)
}

// Tail returns the last node. ok is false for an empty sequence.
func (s *Sequence) Tail() (Node, bool) {
	return s.At(len(s.names) - 1)
}

// At returns the node at index i.
func (s *Sequence) At(i int) (Node, bool) {
	if i < 0 || i >= len(s.names) {
		return Node{}, false
	}
	return Node{Index: i, Name: s.names[i]}, true
}

// Next returns the node after n. ok is false at the tail.
func (s *Sequence) Next(n Node) (Node, bool) {
	return s.At(n.Index + 1)
}

// Previous returns the node before n. ok is false at the head.
func (s *Sequence) Previous(n Node) (Node, bool) {
	return s.At(n.Index - 1)
}

// Names returns a copy of the card names in order.
func (s *Sequence) Names() []card.Name {
	out := make([]card.Name, len(s.names))
	copy(out, s.names)
	return out
}
