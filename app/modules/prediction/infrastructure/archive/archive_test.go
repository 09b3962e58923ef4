package predictionarchive

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Black-And-White-Club/matchday-bot/app/observability"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, params)
	body, _ := io.ReadAll(params.Body)
	f.bodies = append(f.bodies, body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantKey string
	}{
		{name: "no prefix", wantKey: "standings/cup/matchday-01.xlsx"},
		{name: "with prefix", prefix: "archive", wantKey: "archive/standings/cup/matchday-01.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeS3{}
			store := newS3Store(client, "exports", tt.prefix)

			err := store.Put(context.Background(), "standings/cup/matchday-01.xlsx", "application/octet-stream", []byte("data"))
			require.NoError(t, err)

			require.Len(t, client.inputs, 1)
			assert.Equal(t, "exports", aws.ToString(client.inputs[0].Bucket))
			assert.Equal(t, tt.wantKey, aws.ToString(client.inputs[0].Key))
			assert.Equal(t, "application/octet-stream", aws.ToString(client.inputs[0].ContentType))
			assert.Equal(t, []byte("data"), client.bodies[0])
		})
	}
}

func TestS3StorePutError(t *testing.T) {
	store := newS3Store(&fakeS3{err: errors.New("denied")}, "exports", "")

	err := store.Put(context.Background(), "k", "text/plain", nil)
	assert.ErrorContains(t, err, "denied")
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), Config{})
	assert.Error(t, err)
}

type countingArchiver struct {
	calls atomic.Int32
	err   error
}

func (a *countingArchiver) ArchiveFinishedMatchdays(ctx context.Context) (int, error) {
	a.calls.Add(1)
	return 1, a.err
}

func TestSweeperRunsArchiver(t *testing.T) {
	archiver := &countingArchiver{}
	sweeper, err := NewSweeper(archiver, 20*time.Millisecond, observability.NoOpLogger)
	require.NoError(t, err)

	sweeper.Start()
	defer func() { _ = sweeper.Shutdown() }()

	require.Eventually(t, func() bool { return archiver.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestSweepSurvivesErrors(t *testing.T) {
	archiver := &countingArchiver{err: errors.New("db down")}
	sweeper, err := NewSweeper(archiver, time.Second, observability.NoOpLogger)
	require.NoError(t, err)

	sweeper.sweep()
	sweeper.sweep()
	assert.Equal(t, int32(2), archiver.calls.Load())
}
