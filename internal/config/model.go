package config

import "time"

// Source types.
const (
	SourceFile = "file"
	SourceAPI  = "api"
)

// PublishS3 is the only publish target.
const PublishS3 = "s3"

// Export is the decoded configuration of one export run.
type Export struct {
	Platform     string
	OutputDir    string
	Workers      int
	TemplatesDir string
	// ErrorReport, when set, is where a failed run writes its error as JSON.
	ErrorReport string

	Source  *Source
	Archive *Archive
	Publish *Publish
}

// Source describes where the project snapshot is loaded from.
type Source struct {
	Type string

	// file
	Path   string
	Format string

	// api
	BaseURL   string
	Token     string
	TeamID    string
	ProjectID string
	BoardID   string
	Timeout   time.Duration
}

// Archive enables zip packaging of the output directory.
type Archive struct {
	Path    string
	KeepDir bool
	Level   int
}

// Publish enables upload of the archive.
type Publish struct {
	Type            string
	Bucket          string
	Region          string
	Prefix          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	MaxRetries      int
	Backoff         time.Duration
}
