// Package source loads project snapshots for the exporter, either from a file
// on disk or from the remote project API.
package source

import (
	"context"

	"github.com/specialistvlad/flowexport/internal/flow"
)

// Source produces the project snapshot compiled by a run.
type Source interface {
	Load(ctx context.Context) (*flow.Project, error)
}
