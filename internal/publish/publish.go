// Package publish uploads finished export archives to S3.
package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/specialistvlad/flowexport/internal/ctxlog"
	"github.com/specialistvlad/flowexport/internal/exporterr"
)

// DefaultMaxRetries is the number of retries after a failed upload.
const DefaultMaxRetries = 3

// Options configures the S3 publisher.
type Options struct {
	Bucket string
	Region string
	// Prefix is prepended to every object key.
	Prefix string
	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string
	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
	MaxRetries      int
	// Backoff is the delay before the first retry; it doubles per attempt.
	Backoff time.Duration
}

// PutObjectAPI is the subset of the S3 client the publisher uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads archives to a bucket.
type Publisher struct {
	client PutObjectAPI
	opts   Options
	now    func() time.Time
}

// New creates a publisher with a client built from the AWS default config.
func New(ctx context.Context, opts Options) (*Publisher, error) {
	if opts.Bucket == "" {
		return nil, exporterr.Errorf(exporterr.Config, "publish", "bucket is required")
	}
	loadOpts := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, exporterr.New(exporterr.Config, "load AWS config", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, opts), nil
}

// NewWithClient creates a publisher around an existing client.
func NewWithClient(client PutObjectAPI, opts Options) *Publisher {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	return &Publisher{client: client, opts: opts, now: time.Now}
}

// Key returns the object key for a local archive path:
// <prefix>/<YYYY>/<MM>/<DD>/<file name>.
func (p *Publisher) Key(localPath string) string {
	return path.Join(p.opts.Prefix, p.now().UTC().Format("2006/01/02"), filepath.Base(localPath))
}

// Publish uploads the file, retrying with exponential backoff, and returns
// the s3:// URL of the object.
func (p *Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	key := p.Key(localPath)

	var err error
	for attempt := 0; attempt <= p.opts.MaxRetries; attempt++ {
		if err = p.upload(ctx, localPath, key); err == nil {
			url := fmt.Sprintf("s3://%s/%s", p.opts.Bucket, key)
			logger.Info("Archive published.", "url", url)
			return url, nil
		}
		if attempt == p.opts.MaxRetries {
			break
		}
		backoff := p.opts.Backoff << uint(attempt)
		logger.Warn("Upload failed, retrying.", "attempt", attempt+1, "backoff", backoff, "error", err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", exporterr.New(exporterr.IO, "publish "+key, ctx.Err())
		}
	}
	return "", exporterr.New(exporterr.IO, "publish "+key, fmt.Errorf("after %d attempts: %w", p.opts.MaxRetries+1, err))
}

func (p *Publisher) upload(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.opts.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}
