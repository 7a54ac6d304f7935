package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu       sync.Mutex
	failures int
	calls    int
	bucket   string
	key      string
	body     string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("slow down")
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func archiveFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "output.zip")
	require.NoError(t, os.WriteFile(path, []byte("zip-bytes"), 0o644))
	return path
}

func fixedClock(p *Publisher) {
	p.now = func() time.Time { return time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC) }
}

func TestPublish_RetriesThenSucceeds(t *testing.T) {
	client := &fakeS3{failures: 2}
	p := NewWithClient(client, Options{Bucket: "exports", Prefix: "agents", MaxRetries: 3, Backoff: time.Millisecond})
	fixedClock(p)

	url, err := p.Publish(context.Background(), archiveFile(t))
	require.NoError(t, err)
	assert.Equal(t, "s3://exports/agents/2024/03/07/output.zip", url)
	assert.Equal(t, 3, client.calls)
	assert.Equal(t, "exports", client.bucket)
	assert.Equal(t, "agents/2024/03/07/output.zip", client.key)
	assert.Equal(t, "zip-bytes", client.body)
}

func TestPublish_GivesUp(t *testing.T) {
	client := &fakeS3{failures: 10}
	p := NewWithClient(client, Options{Bucket: "exports", MaxRetries: 2, Backoff: time.Millisecond})

	_, err := p.Publish(context.Background(), archiveFile(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, exporterr.ErrIO)
	assert.Equal(t, 3, client.calls)
}

func TestPublish_CancelledDuringBackoff(t *testing.T) {
	client := &fakeS3{failures: 10}
	p := NewWithClient(client, Options{Bucket: "exports", MaxRetries: 5, Backoff: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Publish(ctx, archiveFile(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, client.calls)
}

func TestKey_WithoutPrefix(t *testing.T) {
	p := NewWithClient(&fakeS3{}, Options{Bucket: "b"})
	fixedClock(p)
	assert.Equal(t, "2024/03/07/agent.zip", p.Key("/tmp/x/agent.zip"))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.ErrorIs(t, err, exporterr.ErrConfig)
}
