package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectAPI(t *testing.T, delay time.Duration) (*httptest.Server, *[]string) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []string
	)
	routes := map[string]string{
		"/teams/t1/projects/p1":           `{"id": "p1", "platform": "slack"}`,
		"/teams/t1/projects/p1/boards/b1": `{"board": {"root_messages": ["m0"], "messages": [{"message_id": "m0", "message_type": "text", "payload": {"nodeName": "Start", "text": "hi"}}]}}`,
		"/teams/t1/projects/p1/intents":   `[{"id": "i1", "name": "greet", "updated_at": {"date": "2020-01-01 00:00:00.000000"}, "utterances": []}]`,
		"/teams/t1/projects/p1/entities":  `[]`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.Path)
		mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func apiSource(url string) *API {
	return &API{BaseURL: url, Token: "secret", TeamID: "t1", ProjectID: "p1", BoardID: "b1"}
}

func TestAPI_Load(t *testing.T) {
	srv, seen := projectAPI(t, 0)

	project, err := apiSource(srv.URL).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "slack", project.Platform)
	assert.Equal(t, []string{"m0"}, project.Board.RootMessages)
	require.Len(t, project.Board.Messages, 1)
	require.Len(t, project.Intents, 1)
	assert.Equal(t, "greet", project.Intents[0].Name)
	assert.Empty(t, project.Entities)
	assert.Len(t, *seen, 4)
}

func TestAPI_Unauthorized(t *testing.T) {
	srv, _ := projectAPI(t, 0)
	src := apiSource(srv.URL)
	src.Token = "wrong"

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, exporterr.ErrIO)
	assert.Contains(t, err.Error(), "status 401")
}

func TestAPI_Timeout(t *testing.T) {
	srv, _ := projectAPI(t, time.Second)
	src := apiSource(srv.URL)
	src.Timeout = 20 * time.Millisecond

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, exporterr.ErrInputTimeout)
}

func TestAPI_Validate(t *testing.T) {
	err := (&API{Token: "x", TeamID: "t"}).Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, exporterr.ErrConfig)
	assert.Contains(t, err.Error(), "board_id, project_id")
}
