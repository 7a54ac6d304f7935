package flow

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/flowexport/internal/exporterr"
)

// ErrNotFound is wrapped by every lookup of an unknown message or intent.
var ErrNotFound = errors.New("not found")

// Graph is an indexed, read-only view over a board. It is safe for
// concurrent use because nothing mutates it after NewGraph returns.
type Graph struct {
	board    *Board
	messages map[string]*Message
	roots    map[string]struct{}
}

// NewGraph indexes the board and verifies that every edge and root id
// resolves to a message. A dangling reference means the input graph is
// corrupt, so it is reported instead of being dropped.
func NewGraph(board *Board) (*Graph, error) {
	g := &Graph{
		board:    board,
		messages: make(map[string]*Message, len(board.Messages)),
		roots:    make(map[string]struct{}, len(board.RootMessages)),
	}
	for _, m := range board.Messages {
		if m == nil {
			continue
		}
		if _, dup := g.messages[m.ID]; dup {
			return nil, exporterr.Errorf(exporterr.GraphIntegrity, "index board", "duplicate message id %q", m.ID)
		}
		g.messages[m.ID] = m
	}
	for _, id := range board.RootMessages {
		if _, ok := g.messages[id]; !ok {
			return nil, notFound("root message", id)
		}
		g.roots[id] = struct{}{}
	}
	for _, m := range g.Messages() {
		for _, e := range m.Next {
			if _, ok := g.messages[e.MessageID]; !ok {
				return nil, notFound(fmt.Sprintf("next edge of message %q", m.ID), e.MessageID)
			}
		}
		for _, e := range m.Previous {
			if _, ok := g.messages[e.MessageID]; !ok {
				return nil, notFound(fmt.Sprintf("previous edge of message %q", m.ID), e.MessageID)
			}
		}
	}
	return g, nil
}

func notFound(op, id string) error {
	return exporterr.New(exporterr.GraphIntegrity, op, fmt.Errorf("message %q: %w", id, ErrNotFound))
}

// Message returns the message with the given id.
func (g *Graph) Message(id string) (*Message, error) {
	m, ok := g.messages[id]
	if !ok {
		return nil, notFound("lookup", id)
	}
	return m, nil
}

// Has reports whether the board contains a message with the given id.
func (g *Graph) Has(id string) bool {
	_, ok := g.messages[id]
	return ok
}

// IsRoot reports whether id is a declared root message.
func (g *Graph) IsRoot(id string) bool {
	_, ok := g.roots[id]
	return ok
}

// Messages returns the board's messages in input order.
func (g *Graph) Messages() []*Message {
	out := make([]*Message, 0, len(g.board.Messages))
	for _, m := range g.board.Messages {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of messages on the board.
func (g *Graph) Len() int {
	return len(g.messages)
}
