package flow

// IntermediateNodes expands a set of outgoing edges into the pass-through
// messages that follow them, in depth-first declaration order.
//
// Intent-tagged edges are decisions and are never followed. The target of an
// untagged edge joins the chain; the walk continues through it unless it has
// no outgoing edges or at least one of them is tagged, in which case it is the
// last node of its branch. A message that was already visited ends the branch,
// which keeps cyclic boards finite.
func (g *Graph) IntermediateNodes(next []Edge) ([]*Message, error) {
	return g.collect(next, make(map[string]struct{}))
}

// IntermediateNodesOf collects the chain that follows origin. A cycle that
// leads back to origin stops there instead of folding origin into its own
// chain.
func (g *Graph) IntermediateNodesOf(origin *Message) ([]*Message, error) {
	return g.collect(origin.Next, map[string]struct{}{origin.ID: {}})
}

func (g *Graph) collect(next []Edge, seen map[string]struct{}) ([]*Message, error) {
	var chain []*Message

	var walk func(edges []Edge) error
	walk = func(edges []Edge) error {
		for _, e := range edges {
			if e.Tagged() {
				continue
			}
			if _, ok := seen[e.MessageID]; ok {
				continue
			}
			m, err := g.Message(e.MessageID)
			if err != nil {
				return err
			}
			seen[m.ID] = struct{}{}
			chain = append(chain, m)
			if isDecisionPoint(m) {
				continue
			}
			if err := walk(m.Next); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(next); err != nil {
		return nil, err
	}
	return chain, nil
}

func isDecisionPoint(m *Message) bool {
	if len(m.Next) == 0 {
		return true
	}
	for _, e := range m.Next {
		if e.Tagged() {
			return true
		}
	}
	return false
}
