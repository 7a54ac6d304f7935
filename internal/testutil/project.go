package testutil

import (
	"encoding/json"
	"testing"

	"github.com/specialistvlad/flowexport/internal/flow"
	"github.com/stretchr/testify/require"
)

// ProjectBuilder assembles flow.Project fixtures edge by edge. Edges added
// with Edge are recorded on both ends, the way the upstream API delivers them.
type ProjectBuilder struct {
	t       testing.TB
	project *flow.Project
	byID    map[string]*flow.Message
}

// NewProject starts a fixture for the given platform.
func NewProject(t testing.TB, platform string) *ProjectBuilder {
	t.Helper()
	return &ProjectBuilder{
		t:       t,
		project: &flow.Project{Platform: platform},
		byID:    make(map[string]*flow.Message),
	}
}

// Message adds a message whose payload is the given JSON document.
func (b *ProjectBuilder) Message(id, messageType, payloadJSON string) *ProjectBuilder {
	b.t.Helper()
	m := &flow.Message{ID: id, Type: messageType}
	require.NoError(b.t, json.Unmarshal([]byte(payloadJSON), &m.Payload), "payload of %s", id)
	b.project.Board.Messages = append(b.project.Board.Messages, m)
	b.byID[id] = m
	return b
}

// Text adds a text message named nodeName.
func (b *ProjectBuilder) Text(id, nodeName, text string) *ProjectBuilder {
	b.t.Helper()
	payload, err := json.Marshal(map[string]string{"nodeName": nodeName, "text": text})
	require.NoError(b.t, err)
	return b.Message(id, "text", string(payload))
}

// Root marks messages as roots.
func (b *ProjectBuilder) Root(ids ...string) *ProjectBuilder {
	b.project.Board.RootMessages = append(b.project.Board.RootMessages, ids...)
	return b
}

// Edge links from to to, through intentID when it is not empty.
func (b *ProjectBuilder) Edge(from, to, intentID string) *ProjectBuilder {
	b.t.Helper()
	src, ok := b.byID[from]
	require.True(b.t, ok, "unknown edge source %s", from)
	dst, ok := b.byID[to]
	require.True(b.t, ok, "unknown edge target %s", to)
	src.Next = append(src.Next, flow.Edge{MessageID: to, Intent: flow.IntentRef{Value: intentID}})
	dst.Previous = append(dst.Previous, flow.Edge{MessageID: from})
	return b
}

// DanglingEdge adds a next edge to a message id that does not exist.
func (b *ProjectBuilder) DanglingEdge(from, to string) *ProjectBuilder {
	b.t.Helper()
	src, ok := b.byID[from]
	require.True(b.t, ok, "unknown edge source %s", from)
	src.Next = append(src.Next, flow.Edge{MessageID: to})
	return b
}

// Intent adds an intent updated at updatedAt (any format flow.ParseTimestamp
// accepts).
func (b *ProjectBuilder) Intent(id, name, updatedAt string, utterances ...*flow.Utterance) *ProjectBuilder {
	b.t.Helper()
	ts, err := flow.ParseTimestamp(updatedAt)
	require.NoError(b.t, err)
	b.project.Intents = append(b.project.Intents, &flow.Intent{
		ID:         id,
		Name:       name,
		UpdatedAt:  ts,
		Utterances: utterances,
	})
	return b
}

// Entity adds an entity with a raw data document.
func (b *ProjectBuilder) Entity(id, name, dataJSON string) *ProjectBuilder {
	b.project.Entities = append(b.project.Entities, &flow.Entity{ID: id, Name: name, Data: json.RawMessage(dataJSON)})
	return b
}

// Build returns the assembled project.
func (b *ProjectBuilder) Build() *flow.Project {
	return b.project
}

// Graph builds the project's graph and fails the test on error.
func (b *ProjectBuilder) Graph() *flow.Graph {
	b.t.Helper()
	g, err := flow.NewGraph(&b.project.Board)
	require.NoError(b.t, err)
	return g
}

// Utterance builds an utterance fixture.
func Utterance(text string, vars ...*flow.Variable) *flow.Utterance {
	return &flow.Utterance{Text: text, Variables: vars}
}

// Var builds a variable fixture.
func Var(id, name, entity string, start int) *flow.Variable {
	return &flow.Variable{ID: id, Name: name, Entity: entity, StartIndex: start}
}
