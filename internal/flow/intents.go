package flow

import (
	"fmt"

	"github.com/specialistvlad/flowexport/internal/exporterr"
)

// IntentTable indexes intents by id.
type IntentTable struct {
	byID map[string]*Intent
}

// NewIntentTable indexes the given intents. Later duplicates replace earlier
// ones, matching how the upstream table is keyed.
func NewIntentTable(intents []*Intent) *IntentTable {
	t := &IntentTable{byID: make(map[string]*Intent, len(intents))}
	for _, in := range intents {
		if in != nil {
			t.byID[in.ID] = in
		}
	}
	return t
}

// Intent returns the intent with the given id.
func (t *IntentTable) Intent(id string) (*Intent, error) {
	in, ok := t.byID[id]
	if !ok {
		return nil, exporterr.New(exporterr.GraphIntegrity, "intent lookup", fmt.Errorf("intent %q: %w", id, ErrNotFound))
	}
	return in, nil
}

// Len returns the number of indexed intents.
func (t *IntentTable) Len() int {
	return len(t.byID)
}

// CheckEdges verifies that every intent tag on the board resolves.
func (t *IntentTable) CheckEdges(g *Graph) error {
	for _, m := range g.Messages() {
		for _, e := range m.Next {
			if !e.Tagged() {
				continue
			}
			if _, err := t.Intent(e.Intent.Value); err != nil {
				return fmt.Errorf("edge %s -> %s: %w", m.ID, e.MessageID, err)
			}
		}
	}
	return nil
}
