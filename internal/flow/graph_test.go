package flow_test

import (
	"encoding/json"
	"testing"

	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/specialistvlad/flowexport/internal/flow"
	"github.com/specialistvlad/flowexport/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ms []*flow.Message) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func TestNewGraph_Lookup(t *testing.T) {
	g := testutil.NewProject(t, "slack").
		Text("a", "A", "hi").
		Text("b", "B", "there").
		Root("a").
		Edge("a", "b", "").
		Graph()

	m, err := g.Message("b")
	require.NoError(t, err)
	assert.Equal(t, "B", m.Payload.NodeName)
	assert.True(t, g.Has("a"))
	assert.False(t, g.Has("zzz"))
	assert.True(t, g.IsRoot("a"))
	assert.False(t, g.IsRoot("b"))
	assert.Equal(t, 2, g.Len())

	_, err = g.Message("zzz")
	assert.ErrorIs(t, err, flow.ErrNotFound)
	assert.ErrorIs(t, err, exporterr.ErrGraphIntegrity)
}

func TestNewGraph_DanglingEdgeIsSurfaced(t *testing.T) {
	p := testutil.NewProject(t, "slack").
		Text("a", "A", "hi").
		DanglingEdge("a", "ghost").
		Build()

	_, err := flow.NewGraph(&p.Board)
	require.Error(t, err)
	assert.ErrorIs(t, err, exporterr.ErrGraphIntegrity)
	assert.ErrorIs(t, err, flow.ErrNotFound)
	assert.Contains(t, err.Error(), "ghost")
}

func TestNewGraph_UnknownRoot(t *testing.T) {
	p := testutil.NewProject(t, "slack").Text("a", "A", "hi").Root("nope").Build()
	_, err := flow.NewGraph(&p.Board)
	assert.ErrorIs(t, err, exporterr.ErrGraphIntegrity)
}

func TestNewIntentMap(t *testing.T) {
	p := testutil.NewProject(t, "slack").
		Text("root", "Root", "").
		Text("x", "X", "").
		Text("y", "Y", "").
		Edge("root", "y", "i2").
		Edge("root", "x", "i1").
		Edge("x", "y", "i1").
		Edge("x", "y", "i2").
		Edge("y", "x", "").
		Build()

	im := flow.NewIntentMap(p.Board.Messages)
	assert.Equal(t, []string{"y", "x"}, im.Messages())
	assert.Equal(t, []string{"i2", "i1"}, im.Intents("y"))
	assert.Equal(t, []string{"i1"}, im.Intents("x"))
	assert.False(t, im.Has("root"))
	assert.Equal(t, 3, im.Pairs())
}

func TestIntentTable_CheckEdges(t *testing.T) {
	b := testutil.NewProject(t, "slack").
		Text("a", "A", "").
		Text("b", "B", "").
		Edge("a", "b", "known").
		Intent("known", "Known", "2020-01-01")
	g := b.Graph()

	table := flow.NewIntentTable(b.Build().Intents)
	require.NoError(t, table.CheckEdges(g))

	b.Edge("b", "a", "missing")
	err := table.CheckEdges(b.Graph())
	assert.ErrorIs(t, err, exporterr.ErrGraphIntegrity)
	assert.Contains(t, err.Error(), "missing")
}

func TestDecodeProject(t *testing.T) {
	doc := `{
		"platform": "google-actions",
		"board": {
			"root_messages": ["m0"],
			"messages": [
				{"message_id": "m0", "message_type": "text",
				 "payload": {"nodeName": "start here", "text": "hello", "custom": {"x": 1}},
				 "next_message_ids": [{"message_id": "m1", "intent": {"value": "i1", "label": "Greet"}}],
				 "previous_message_ids": []},
				{"message_id": "m1", "message_type": "image",
				 "payload": {"nodeName": "pic", "image_url": "http://img"},
				 "next_message_ids": [{"message_id": "m0", "intent": ""}],
				 "previous_message_ids": [{"message_id": "m0"}]}
			]
		},
		"intents": [{"id": "i1", "name": "greet", "updated_at": {"date": "2019-05-09 18:25:31.000000", "timezone": "UTC"},
			"utterances": [{"text": "hi", "variables": []}]}],
		"entities": [{"id": "e1", "name": "city", "data": [{"value": "Paris", "synonyms": ["Paris"]}]}]
	}`

	var p flow.Project
	require.NoError(t, json.Unmarshal([]byte(doc), &p))

	require.Len(t, p.Board.Messages, 2)
	m0 := p.Board.Messages[0]
	assert.Equal(t, "i1", m0.Next[0].Intent.Value)
	assert.True(t, m0.Next[0].Tagged())
	assert.False(t, p.Board.Messages[1].Next[0].Tagged())
	assert.JSONEq(t, `{"nodeName": "start here", "text": "hello", "custom": {"x": 1}}`, m0.Payload.Raw())
	assert.Equal(t, int64(1557426331000), p.Intents[0].UpdatedAt.EpochMillis())
	assert.JSONEq(t, `[{"value": "Paris", "synonyms": ["Paris"]}]`, string(p.Entities[0].Data))
}

func TestParseTimestamp(t *testing.T) {
	for _, in := range []string{"2019-05-09 18:25:31", "2019-05-09T18:25:31Z", "2019-05-09 18:25:31.000000"} {
		ts, err := flow.ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.Equal(t, int64(1557426331000), ts.EpochMillis(), in)
	}

	ts, err := flow.ParseTimestamp("")
	require.NoError(t, err)
	assert.Zero(t, ts.EpochMillis())

	_, err = flow.ParseTimestamp("yesterday")
	assert.Error(t, err)
}
