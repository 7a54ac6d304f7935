package flow

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Project is the fully resolved snapshot handed to the compiler.
type Project struct {
	Platform string    `json:"platform"`
	Board    Board     `json:"board"`
	Intents  []*Intent `json:"intents"`
	Entities []*Entity `json:"entities"`
}

// Board holds the message graph and the ids of its root messages.
type Board struct {
	RootMessages []string   `json:"root_messages"`
	Messages     []*Message `json:"messages"`
}

// Message is one conversational turn.
type Message struct {
	ID       string  `json:"message_id"`
	Type     string  `json:"message_type"`
	Payload  Payload `json:"payload"`
	Next     []Edge  `json:"next_message_ids"`
	Previous []Edge  `json:"previous_message_ids"`
}

// Edge points at another message, optionally through an intent.
type Edge struct {
	MessageID string    `json:"message_id"`
	Intent    IntentRef `json:"intent"`
}

// Tagged reports whether the edge carries an intent decision.
func (e Edge) Tagged() bool {
	return e.Intent.Value != ""
}

// IntentRef is the intent tag on an edge. The upstream API sends it either as
// an object with a value field or as a bare string; an empty value means an
// unconditional transition.
type IntentRef struct {
	Value string `json:"value,omitempty"`
	Label string `json:"label,omitempty"`
}

// UnmarshalJSON accepts {"value": "..."}, "..." and null.
func (r *IntentRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = IntentRef{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = IntentRef{Value: s}
		return nil
	}
	type plain IntentRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode intent reference: %w", err)
	}
	*r = IntentRef(p)
	return nil
}

// Payload carries the type-specific fields of a message. The fields the
// platform renderers read are decoded; the original JSON is kept so that the
// raw fallback shape can pass the payload through untouched.
type Payload struct {
	NodeName     string       `json:"nodeName"`
	Text         string       `json:"text,omitempty"`
	ImageURL     string       `json:"image_url,omitempty"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
	Buttons      []Button     `json:"buttons,omitempty"`
	Elements     []Element    `json:"elements,omitempty"`

	raw json.RawMessage
}

// QuickReply is a suggested user reply.
type QuickReply struct {
	Title   string `json:"title"`
	Payload string `json:"payload,omitempty"`
}

// Button is a card or list action.
type Button struct {
	Title   string `json:"title"`
	Type    string `json:"type,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// Element is one item of a list or carousel.
type Element struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

type payloadFields Payload

// UnmarshalJSON decodes the known fields and keeps the raw document.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var f payloadFields
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	*p = Payload(f)
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the original document when there is one.
func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	return json.Marshal(payloadFields(p))
}

// Raw returns the serialized payload.
func (p Payload) Raw() string {
	b, err := p.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Intent is a named trigger matched by user utterances.
type Intent struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	UpdatedAt  Timestamp    `json:"updated_at"`
	Utterances []*Utterance `json:"utterances"`
}

// Utterance is one example phrase of an intent.
type Utterance struct {
	Text      string      `json:"text"`
	Variables []*Variable `json:"variables"`
}

// Variable annotates a span of an utterance with an entity. Its span starts
// at StartIndex and is as long as Name, markers included.
type Variable struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Entity     string `json:"entity"`
	StartIndex int    `json:"start_index"`
}

// Entity is a named category of extractable values. Data is passed through
// to the export unchanged.
type Entity struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// Timestamp is a point in time as sent by the upstream API, either as
// {"date": "2019-05-09 18:25:31.000000", ...} or as a plain string.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
}

// ParseTimestamp parses the date formats the upstream API is known to send.
// Zone-less values are read as UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON accepts the object and string forms.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var obj struct {
			Date string `json:"date"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode timestamp: %w", err)
		}
		s = obj.Date
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON writes the object form.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"date": t.UTC().Format("2006-01-02 15:04:05.000000")})
}

// EpochMillis returns the timestamp as milliseconds since the Unix epoch, or
// 0 for the zero timestamp.
func (t Timestamp) EpochMillis() int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
