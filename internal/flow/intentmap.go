package flow

// IntentMap maps each privileged message to the intents whose edges lead to
// it. Keys and values keep first-seen order so that exports are reproducible.
type IntentMap struct {
	order   []string
	intents map[string][]string
}

// NewIntentMap scans every intent-tagged edge of the board in input order.
func NewIntentMap(messages []*Message) *IntentMap {
	im := &IntentMap{intents: make(map[string][]string)}
	for _, m := range messages {
		for _, e := range m.Next {
			if e.Tagged() {
				im.add(e.MessageID, e.Intent.Value)
			}
		}
	}
	return im
}

func (im *IntentMap) add(messageID, intentID string) {
	ids, ok := im.intents[messageID]
	if !ok {
		im.order = append(im.order, messageID)
	}
	for _, id := range ids {
		if id == intentID {
			return
		}
	}
	im.intents[messageID] = append(ids, intentID)
}

// Has reports whether the message is privileged.
func (im *IntentMap) Has(messageID string) bool {
	_, ok := im.intents[messageID]
	return ok
}

// Intents returns the intent ids mapped to a message.
func (im *IntentMap) Intents(messageID string) []string {
	return im.intents[messageID]
}

// Messages returns the privileged message ids in first-seen order.
func (im *IntentMap) Messages() []string {
	return append([]string(nil), im.order...)
}

// Len returns the number of privileged messages.
func (im *IntentMap) Len() int {
	return len(im.order)
}

// Pairs returns the total number of (message, intent) pairings.
func (im *IntentMap) Pairs() int {
	n := 0
	for _, ids := range im.intents {
		n += len(ids)
	}
	return n
}
