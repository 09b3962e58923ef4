package eventbus

import (
	"context"
	"fmt"
)

// MatchdayStream holds every subject the prediction engine publishes or
// consumes.
const MatchdayStream = "MATCHDAY"

// StreamSubjects are the subject wildcards bound to MatchdayStream.
var StreamSubjects = []string{
	"prediction.>",
	"match.>",
	"matchday.>",
	"bonus.>",
	"participant.>",
}

// InitializeStreams creates the JetStream streams during application startup.
func InitializeStreams(ctx context.Context, bus EventBus) error {
	if err := bus.CreateStream(ctx, MatchdayStream, StreamSubjects...); err != nil {
		return fmt.Errorf("failed to initialize stream %s: %w", MatchdayStream, err)
	}
	return nil
}
