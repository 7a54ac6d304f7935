package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/specialistvlad/flowexport/internal/ctxlog"
	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/specialistvlad/flowexport/internal/flow"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the project API the API source talks to by default.
const DefaultBaseURL = "https://app.botmock.com/api"

// DefaultTimeout bounds the whole fetch.
const DefaultTimeout = 30 * time.Second

// API fetches a project from the remote project API. The project, board,
// intents and entities endpoints are requested concurrently.
type API struct {
	BaseURL   string
	Token     string
	TeamID    string
	ProjectID string
	BoardID   string
	Timeout   time.Duration
	Client    *http.Client
}

// Validate reports missing connection settings.
func (a *API) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"token":      a.Token,
		"team_id":    a.TeamID,
		"project_id": a.ProjectID,
		"board_id":   a.BoardID,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return exporterr.Errorf(exporterr.Config, "api source", "missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Load implements Source.
func (a *API) Load(ctx context.Context) (*flow.Project, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		meta     struct{ Platform string `json:"platform"` }
		board    flow.Board
		intents  []*flow.Intent
		entities []*flow.Entity
	)
	projectPath := "teams/" + url.PathEscape(a.TeamID) + "/projects/" + url.PathEscape(a.ProjectID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.get(gctx, projectPath, "", &meta)
	})
	g.Go(func() error {
		return a.get(gctx, projectPath+"/boards/"+url.PathEscape(a.BoardID), "board", &board)
	})
	g.Go(func() error {
		return a.get(gctx, projectPath+"/intents", "", &intents)
	})
	g.Go(func() error {
		return a.get(gctx, projectPath+"/entities", "", &entities)
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, exporterr.New(exporterr.InputTimeout, "fetch project", err)
		}
		return nil, err
	}

	logger.Info("Fetched project.",
		"projectID", a.ProjectID,
		"platform", meta.Platform,
		"messages", len(board.Messages),
		"intents", len(intents),
		"entities", len(entities),
	)
	return &flow.Project{
		Platform: meta.Platform,
		Board:    board,
		Intents:  intents,
		Entities: entities,
	}, nil
}

// get decodes the JSON body of an endpoint into out. When envelope is set and
// the body is an object carrying that key, the key's value is decoded
// instead.
func (a *API) get(ctx context.Context, path, envelope string, out any) error {
	base := a.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	endpoint := strings.TrimRight(base, "/") + "/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return exporterr.New(exporterr.Config, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
	req.Header.Set("Accept", "application/json")

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	ctxlog.FromContext(ctx).Debug("Fetching.", "url", endpoint)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return exporterr.Errorf(exporterr.IO, "fetch "+path, "status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if envelope != "" {
		var wrapped map[string]json.RawMessage
		if json.Unmarshal(body, &wrapped) == nil {
			if inner, ok := wrapped[envelope]; ok {
				body = inner
			}
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return exporterr.New(exporterr.IO, "decode "+path, err)
	}
	return nil
}
