package predictiondb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for prediction persistence.
// Every method accepts an optional bun.IDB so callers can run it inside a
// transaction; a nil db uses the repository's own connection.
//
// Error semantics:
//   - ErrNotFound: record does not exist
//   - ErrLockedAtWrite: the lock predicate refused a prediction write
//   - Other errors: infrastructure failures
type Repository interface {
	// UpsertPrediction inserts or replaces a participant's prediction. The
	// statement only takes effect while now is before the match's lock time.
	UpsertPrediction(ctx context.Context, db bun.IDB, p *Prediction, now time.Time) error

	// GetPrediction returns ErrNotFound when nothing is stored.
	GetPrediction(ctx context.Context, db bun.IDB, tournamentID, matchID, participantID string) (*Prediction, error)

	// ListPredictions returns every stored prediction for the given matches.
	ListPredictions(ctx context.Context, db bun.IDB, tournamentID string, matchIDs []string) ([]Prediction, error)

	// InsertDefaultPredictions persists default rows, leaving existing rows
	// untouched. It returns how many rows were inserted.
	InsertDefaultPredictions(ctx context.Context, db bun.IDB, rows []*Prediction) (int, error)

	// GetMatch returns ErrNotFound for unknown matches.
	GetMatch(ctx context.Context, db bun.IDB, tournamentID, matchID string) (*Match, error)

	// GetMatchForWrite is GetMatch holding a share lock on the row until the
	// surrounding transaction ends.
	GetMatchForWrite(ctx context.Context, db bun.IDB, tournamentID, matchID string) (*Match, error)

	ListMatchesByMatchday(ctx context.Context, db bun.IDB, tournamentID string, matchday int) ([]Match, error)
	ListMatches(ctx context.Context, db bun.IDB, tournamentID string) ([]Match, error)
	UpsertMatch(ctx context.Context, db bun.IDB, m *Match) error

	// ListBonusMatches returns every designation of a tournament.
	ListBonusMatches(ctx context.Context, db bun.IDB, tournamentID string) ([]BonusMatch, error)

	// InsertBonusMatch stores a designation unless the matchday already has
	// one. It reports whether the row was inserted.
	InsertBonusMatch(ctx context.Context, db bun.IDB, b *BonusMatch) (bool, error)

	// GetBonusMatch returns ErrNotFound when the matchday has no designation.
	GetBonusMatch(ctx context.Context, db bun.IDB, tournamentID string, matchday int) (*BonusMatch, error)

	// GetScoringConfig returns ErrNotFound when the tournament has no row.
	GetScoringConfig(ctx context.Context, db bun.IDB, tournamentID string) (*TournamentScoring, error)
	UpsertScoringConfig(ctx context.Context, db bun.IDB, cfg *TournamentScoring) error

	RegisterParticipant(ctx context.Context, db bun.IDB, tournamentID, participantID string) error
	ListParticipants(ctx context.Context, db bun.IDB, tournamentID string) ([]string, error)

	// ListUnarchivedMatchdays returns matchdays that have matches but no
	// archive record.
	ListUnarchivedMatchdays(ctx context.Context, db bun.IDB) ([]MatchdayRef, error)
	SaveMatchdayArchive(ctx context.Context, db bun.IDB, a *MatchdayArchive) error
}
