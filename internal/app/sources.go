package app

import (
	"github.com/specialistvlad/flowexport/internal/config"
	"github.com/specialistvlad/flowexport/internal/source"
)

// newSource builds the project source named by the settings. Without a
// configured source the project API is used with credentials taken from the
// environment.
func (a *App) newSource() (source.Source, error) {
	src := a.settings.Source
	if src == nil {
		src = &config.Source{
			Type:      config.SourceAPI,
			BaseURL:   a.getenv("BOTMOCK_API_URL"),
			Token:     a.getenv("BOTMOCK_TOKEN"),
			TeamID:    a.getenv("BOTMOCK_TEAM_ID"),
			ProjectID: a.getenv("BOTMOCK_PROJECT_ID"),
			BoardID:   a.getenv("BOTMOCK_BOARD_ID"),
		}
	}

	switch src.Type {
	case config.SourceFile:
		return &source.File{Path: src.Path, Format: src.Format}, nil
	default:
		api := &source.API{
			BaseURL:   src.BaseURL,
			Token:     src.Token,
			TeamID:    src.TeamID,
			ProjectID: src.ProjectID,
			BoardID:   src.BoardID,
			Timeout:   src.Timeout,
		}
		if err := api.Validate(); err != nil {
			return nil, err
		}
		return api, nil
	}
}
