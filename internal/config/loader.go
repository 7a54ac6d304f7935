package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/flowexport/internal/ctxlog"
	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot mirrors the top level of a configuration file.
type fileRoot struct {
	Platform     *string         `hcl:"platform,optional"`
	OutputDir    *string         `hcl:"output_dir,optional"`
	Workers      *int            `hcl:"workers,optional"`
	TemplatesDir *string         `hcl:"templates_dir,optional"`
	ErrorReport  *string         `hcl:"error_report,optional"`
	Sources      []*sourceBlock  `hcl:"source,block"`
	Archives     []*archiveBlock `hcl:"archive,block"`
	Publishers   []*publishBlock `hcl:"publish,block"`
}

type sourceBlock struct {
	Type      string  `hcl:"type,label"`
	Path      *string `hcl:"path,optional"`
	Format    *string `hcl:"format,optional"`
	BaseURL   *string `hcl:"base_url,optional"`
	Token     *string `hcl:"token,optional"`
	TeamID    *string `hcl:"team_id,optional"`
	ProjectID *string `hcl:"project_id,optional"`
	BoardID   *string `hcl:"board_id,optional"`
	Timeout   *string `hcl:"timeout,optional"`
}

type archiveBlock struct {
	Path       *string `hcl:"path,optional"`
	KeepOutput *bool   `hcl:"keep_output,optional"`
	Level      *int    `hcl:"level,optional"`
}

type publishBlock struct {
	Type            string  `hcl:"type,label"`
	Bucket          string  `hcl:"bucket"`
	Region          *string `hcl:"region,optional"`
	Prefix          *string `hcl:"prefix,optional"`
	Endpoint        *string `hcl:"endpoint,optional"`
	AccessKeyID     *string `hcl:"access_key_id,optional"`
	SecretAccessKey *string `hcl:"secret_access_key,optional"`
	MaxRetries      *int    `hcl:"max_retries,optional"`
	Backoff         *string `hcl:"backoff,optional"`
}

// Loader reads HCL configuration files.
type Loader struct {
	// Environ returns the environment exposed as the env object.
	Environ func() []string
}

// NewLoader creates a loader over the process environment.
func NewLoader() *Loader {
	return &Loader{Environ: os.Environ}
}

// Load parses and decodes the configuration file at path.
func (l *Loader) Load(ctx context.Context, path string) (*Export, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, exporterr.New(exporterr.Config, "read config", err)
	}
	return l.Parse(ctx, src, path)
}

// Parse decodes configuration source. filename is used in diagnostics.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*Export, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, exporterr.New(exporterr.Config, "parse "+filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, l.evalContext(), &root); diags.HasErrors() {
		return nil, exporterr.New(exporterr.Config, "decode "+filename, diags)
	}

	cfg, err := translate(&root)
	if err != nil {
		return nil, exporterr.New(exporterr.Config, filename, err)
	}
	logger.Debug("Configuration loaded.",
		"file", filename,
		"platform", cfg.Platform,
		"source", sourceType(cfg.Source),
		"archive", cfg.Archive != nil,
		"publish", cfg.Publish != nil,
	)
	return cfg, nil
}

func (l *Loader) evalContext() *hcl.EvalContext {
	environ := os.Environ
	if l.Environ != nil {
		environ = l.Environ
	}
	vars := map[string]cty.Value{}
	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{"env": env}}
}

func translate(root *fileRoot) (*Export, error) {
	cfg := &Export{
		Platform:     deref(root.Platform),
		OutputDir:    deref(root.OutputDir),
		Workers:      deref(root.Workers),
		TemplatesDir: deref(root.TemplatesDir),
		ErrorReport:  deref(root.ErrorReport),
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}

	if len(root.Sources) > 1 {
		return nil, fmt.Errorf("only one source block is allowed, found %d", len(root.Sources))
	}
	if len(root.Sources) == 1 {
		src, err := translateSource(root.Sources[0])
		if err != nil {
			return nil, err
		}
		cfg.Source = src
	}

	if len(root.Archives) > 1 {
		return nil, fmt.Errorf("only one archive block is allowed, found %d", len(root.Archives))
	}
	if len(root.Archives) == 1 {
		a := root.Archives[0]
		cfg.Archive = &Archive{Path: deref(a.Path), KeepDir: deref(a.KeepOutput), Level: deref(a.Level)}
	}

	if len(root.Publishers) > 1 {
		return nil, fmt.Errorf("only one publish block is allowed, found %d", len(root.Publishers))
	}
	if len(root.Publishers) == 1 {
		pub, err := translatePublish(root.Publishers[0])
		if err != nil {
			return nil, err
		}
		cfg.Publish = pub
	}
	return cfg, nil
}

func translateSource(b *sourceBlock) (*Source, error) {
	src := &Source{
		Type:      b.Type,
		Path:      deref(b.Path),
		Format:    deref(b.Format),
		BaseURL:   deref(b.BaseURL),
		Token:     deref(b.Token),
		TeamID:    deref(b.TeamID),
		ProjectID: deref(b.ProjectID),
		BoardID:   deref(b.BoardID),
	}
	switch b.Type {
	case SourceFile:
		if src.Path == "" {
			return nil, fmt.Errorf(`source "file" requires path`)
		}
	case SourceAPI:
	default:
		return nil, fmt.Errorf("unknown source type %q, expected %q or %q", b.Type, SourceFile, SourceAPI)
	}
	timeout, err := duration("timeout", b.Timeout)
	if err != nil {
		return nil, err
	}
	src.Timeout = timeout
	return src, nil
}

func translatePublish(b *publishBlock) (*Publish, error) {
	if b.Type != PublishS3 {
		return nil, fmt.Errorf("unknown publish type %q, expected %q", b.Type, PublishS3)
	}
	backoff, err := duration("backoff", b.Backoff)
	if err != nil {
		return nil, err
	}
	return &Publish{
		Type:            b.Type,
		Bucket:          b.Bucket,
		Region:          deref(b.Region),
		Prefix:          deref(b.Prefix),
		Endpoint:        deref(b.Endpoint),
		AccessKeyID:     deref(b.AccessKeyID),
		SecretAccessKey: deref(b.SecretAccessKey),
		MaxRetries:      derefOr(b.MaxRetries, -1),
		Backoff:         backoff,
	}, nil
}

func duration(name string, s *string) (time.Duration, error) {
	if s == nil || *s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, *s, err)
	}
	return d, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func derefOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func sourceType(s *Source) string {
	if s == nil {
		return ""
	}
	return s.Type
}
