// Package tokenizer turns annotated utterance text into the token sequence an
// NLU training file expects: plain text runs alternating with entity spans.
package tokenizer

import (
	"unicode/utf16"

	"github.com/google/uuid"
	"github.com/specialistvlad/flowexport/internal/flow"
)

// Token is one segment of a tokenized utterance.
type Token struct {
	Text        string `json:"text"`
	Alias       string `json:"alias,omitempty"`
	Meta        string `json:"meta,omitempty"`
	UserDefined bool   `json:"userDefined"`
}

// Utterance is the exported form of one example phrase.
type Utterance struct {
	ID         string  `json:"id"`
	Data       []Token `json:"data"`
	IsTemplate bool    `json:"isTemplate"`
	Count      int     `json:"count"`
	Updated    int64   `json:"updated"`
}

// IDFunc generates artifact identifiers.
type IDFunc func() string

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// span is a variable resolved against the text, in UTF-16 code units.
type span struct {
	v          *flow.Variable
	start, end int
}

// Tokenize splits text around its variables.
//
// Variables are walked in declaration order, keyed by id: a repeated id keeps
// its first position and its first name and entity, but takes the span of the
// later declaration. Variables declared out of offset order are not reordered,
// so text before an earlier span is emitted again. Text between the cursor and
// a variable becomes a plain token, the variable's span becomes an entity
// token and moves the cursor to the span's end. Once variables have been
// seen, the text after the last one is always emitted, even when empty.
// Without variables the whole text is a single plain token.
//
// Offsets count UTF-16 code units, as the upstream editor does, and are
// clamped to the text so that malformed spans cannot panic.
func Tokenize(text string, vars []*flow.Variable) []Token {
	units := utf16.Encode([]rune(text))
	spans := resolve(units, vars)
	if len(spans) == 0 {
		return []Token{{Text: text, UserDefined: false}}
	}

	tokens := make([]Token, 0, 2*len(spans)+1)
	cursor := 0
	for _, s := range spans {
		if s.start > cursor {
			tokens = append(tokens, Token{Text: decode(units[cursor:s.start])})
		}
		tokens = append(tokens, Token{
			Text:        decode(units[s.start:s.end]),
			Alias:       stripMarkers(s.v.Name),
			Meta:        "@" + s.v.Entity,
			UserDefined: true,
		})
		cursor = s.end
	}
	tokens = append(tokens, Token{Text: decode(units[cursor:])})
	return tokens
}

func resolve(units []uint16, vars []*flow.Variable) []span {
	var spans []span
	index := make(map[string]int)
	for _, v := range vars {
		if v == nil {
			continue
		}
		start := clamp(v.StartIndex, len(units))
		end := clamp(start+len(utf16.Encode([]rune(v.Name))), len(units))
		if i, ok := index[v.ID]; ok {
			spans[i].start, spans[i].end = start, end
			continue
		}
		index[v.ID] = len(spans)
		spans = append(spans, span{v: v, start: start, end: end})
	}
	return spans
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func decode(units []uint16) string {
	return string(utf16.Decode(units))
}

// stripMarkers drops the one-character markers around a variable name, as in
// "%city%" or "[city]".
func stripMarkers(name string) string {
	r := []rune(name)
	if len(r) < 2 {
		return name
	}
	return string(r[1 : len(r)-1])
}

// NewUtterance tokenizes u into its exported form. updated is the owning
// intent's last update.
func NewUtterance(u *flow.Utterance, updated flow.Timestamp, newID IDFunc) Utterance {
	if newID == nil {
		newID = NewID
	}
	return Utterance{
		ID:      newID(),
		Data:    Tokenize(u.Text, u.Variables),
		Updated: updated.EpochMillis(),
	}
}

// Utterances tokenizes every utterance of an intent, in order.
func Utterances(in *flow.Intent, newID IDFunc) []Utterance {
	out := make([]Utterance, 0, len(in.Utterances))
	for _, u := range in.Utterances {
		if u == nil {
			continue
		}
		out = append(out, NewUtterance(u, in.UpdatedAt, newID))
	}
	return out
}
