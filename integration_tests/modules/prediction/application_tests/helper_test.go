package applicationtests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/matchday-bot/app/observability"
	predictionservice "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/application"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"github.com/Black-And-White-Club/matchday-bot/integration_tests/testutils"
)

// movableClock is a server clock the test advances by hand.
type movableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *movableClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type serviceDeps struct {
	ctx     context.Context
	service *predictionservice.PredictionService
	repo    predictiondb.Repository
	pubsub  *gochannel.GoChannel
	clock   *movableClock
	gen     *testutils.TestDataGenerator
}

func setup(t *testing.T, start time.Time) serviceDeps {
	t.Helper()
	env := testutils.GetTestEnv(t)

	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 32}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubsub.Close() })

	clock := &movableClock{now: start}
	repo := predictiondb.NewRepository(env.DB)
	service := predictionservice.NewPredictionService(
		repo,
		pubsub,
		env.Logger,
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		env.DB,
		predictionservice.WithClock(clock),
	)

	return serviceDeps{
		ctx:     env.Ctx,
		service: service,
		repo:    repo,
		pubsub:  pubsub,
		clock:   clock,
		gen:     testutils.NewTestDataGenerator(7),
	}
}
