// Package resolver computes the output contexts of a compiled node: the
// intents that may fire next once the node and the pass-through messages
// after it have been played.
package resolver

import (
	"fmt"

	"github.com/specialistvlad/flowexport/internal/flow"
)

// Context is an output context of an intent response.
type Context struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
	Lifespan   int            `json:"lifespan"`
}

// Lifespan is the number of turns an output context stays active.
const Lifespan = 1

// IntentLookup resolves intent ids.
type IntentLookup interface {
	Intent(id string) (*flow.Intent, error)
}

// Resolve returns the contexts opened by the intent-tagged edges of every
// intermediate node, in chain order, followed by those of origin itself.
// Repeated intents are kept; consumers tolerate duplicates.
func Resolve(intents IntentLookup, intermediate []*flow.Message, origin *flow.Message) ([]Context, error) {
	out := make([]Context, 0)
	for _, m := range intermediate {
		var err error
		if out, err = appendContexts(out, intents, m); err != nil {
			return nil, err
		}
	}
	return appendContexts(out, intents, origin)
}

func appendContexts(out []Context, intents IntentLookup, m *flow.Message) ([]Context, error) {
	for _, e := range m.Next {
		if !e.Tagged() {
			continue
		}
		in, err := intents.Intent(e.Intent.Value)
		if err != nil {
			return nil, fmt.Errorf("resolve contexts of message %q: %w", m.ID, err)
		}
		out = append(out, Context{Name: in.Name, Parameters: map[string]any{}, Lifespan: Lifespan})
	}
	return out, nil
}
