package flow

// WelcomeNode returns the id of the canonical entry message: among the
// privileged messages (or every message, when nothing is privileged) the one
// with the most incoming edges from root messages. Ties go to the message
// that comes first on the board. ok is false for an empty board.
func (g *Graph) WelcomeNode(privileged *IntentMap) (id string, ok bool) {
	best := -1
	for _, m := range g.Messages() {
		if privileged != nil && privileged.Len() > 0 && !privileged.Has(m.ID) {
			continue
		}
		n := g.rootAdjacency(m)
		if n > best {
			best, id, ok = n, m.ID, true
		}
	}
	return id, ok
}

func (g *Graph) rootAdjacency(m *Message) int {
	n := 0
	for _, e := range m.Previous {
		if g.IsRoot(e.MessageID) {
			n++
		}
	}
	return n
}
