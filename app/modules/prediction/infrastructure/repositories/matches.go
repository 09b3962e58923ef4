package predictiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// GetMatch retrieves a single match.
func (r *Impl) GetMatch(ctx context.Context, db bun.IDB, tournamentID, matchID string) (*Match, error) {
	return r.getMatch(ctx, r.conn(db), tournamentID, matchID, false)
}

// GetMatchForWrite retrieves a match and holds FOR SHARE on it so kickoff
// cannot change underneath a prediction write.
func (r *Impl) GetMatchForWrite(ctx context.Context, db bun.IDB, tournamentID, matchID string) (*Match, error) {
	return r.getMatch(ctx, r.conn(db), tournamentID, matchID, true)
}

func (r *Impl) getMatch(ctx context.Context, db bun.IDB, tournamentID, matchID string, forShare bool) (*Match, error) {
	m := new(Match)
	q := db.NewSelect().
		Model(m).
		Where("m.id = ?", matchID).
		Where("m.tournament_id = ?", tournamentID)
	if forShare {
		q = q.For("SHARE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("predictiondb.GetMatch: %w", err)
	}
	return m, nil
}

// ListMatchesByMatchday returns the fixtures of one matchday ordered by kickoff.
func (r *Impl) ListMatchesByMatchday(ctx context.Context, db bun.IDB, tournamentID string, matchday int) ([]Match, error) {
	db = r.conn(db)

	var matches []Match
	err := db.NewSelect().
		Model(&matches).
		Where("m.tournament_id = ?", tournamentID).
		Where("m.matchday = ?", matchday).
		Order("m.kickoff ASC", "m.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("predictiondb.ListMatchesByMatchday: %w", err)
	}
	return matches, nil
}

// ListMatches returns every fixture of a tournament.
func (r *Impl) ListMatches(ctx context.Context, db bun.IDB, tournamentID string) ([]Match, error) {
	db = r.conn(db)

	var matches []Match
	err := db.NewSelect().
		Model(&matches).
		Where("m.tournament_id = ?", tournamentID).
		Order("m.matchday ASC", "m.kickoff ASC", "m.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("predictiondb.ListMatches: %w", err)
	}
	return matches, nil
}

// UpsertMatch stores the latest registry view of a fixture.
func (r *Impl) UpsertMatch(ctx context.Context, db bun.IDB, m *Match) error {
	db = r.conn(db)

	_, err := db.NewInsert().
		Model(m).
		On("CONFLICT (id, tournament_id) DO UPDATE").
		Set("matchday = EXCLUDED.matchday").
		Set("kickoff = EXCLUDED.kickoff").
		Set("home_team = EXCLUDED.home_team").
		Set("away_team = EXCLUDED.away_team").
		Set("status = EXCLUDED.status").
		Set("home_score = EXCLUDED.home_score").
		Set("away_score = EXCLUDED.away_score").
		Set("knockout = EXCLUDED.knockout").
		Set("home_score_90 = EXCLUDED.home_score_90").
		Set("away_score_90 = EXCLUDED.away_score_90").
		Set("winner = EXCLUDED.winner").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("predictiondb.UpsertMatch: %w", err)
	}
	return nil
}
