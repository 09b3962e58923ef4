package predictiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// upsertPredictionSQL writes a prediction only while the match row says the
// lock time is still ahead of the submission instant. The source SELECT
// yields no row once locked, so neither the insert nor the conflict update
// runs. Matches without a usable kickoff (NULL, or less than a second past
// the Unix epoch, matching Match.HasValidKickoff) never lock.
const upsertPredictionSQL = `
INSERT INTO predictions AS p
	(id, tournament_id, match_id, participant_id, home, away, qualifier, is_default, submitted_at, updated_at)
SELECT ?::uuid, sm.tournament_id, sm.id, ?, ?, ?, ?, ?, ?::timestamptz, ?::timestamptz
FROM matches AS sm
WHERE sm.id = ?
  AND sm.tournament_id = ?
  AND (sm.kickoff IS NULL
	OR sm.kickoff < 'epoch'::timestamptz + interval '1 second'
	OR sm.kickoff - interval '30 minutes' > ?::timestamptz)
ON CONFLICT (tournament_id, match_id, participant_id) DO UPDATE
SET home = EXCLUDED.home,
	away = EXCLUDED.away,
	qualifier = EXCLUDED.qualifier,
	is_default = EXCLUDED.is_default,
	submitted_at = EXCLUDED.submitted_at,
	updated_at = EXCLUDED.updated_at`

// UpsertPrediction inserts or replaces a prediction in a single statement.
// Zero affected rows means the lock predicate refused the write.
func (r *Impl) UpsertPrediction(ctx context.Context, db bun.IDB, p *Prediction, now time.Time) error {
	db = r.conn(db)

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.SubmittedAt = now
	p.UpdatedAt = now

	res, err := db.NewRaw(upsertPredictionSQL,
		p.ID.String(), p.ParticipantID, p.Home, p.Away, p.Qualifier, p.IsDefault, now, now,
		p.MatchID, p.TournamentID, now,
	).Exec(ctx)
	if err != nil {
		return fmt.Errorf("predictiondb.UpsertPrediction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("predictiondb.UpsertPrediction: %w", err)
	}
	if n == 0 {
		return ErrLockedAtWrite
	}
	return nil
}

// GetPrediction returns a single stored prediction.
func (r *Impl) GetPrediction(ctx context.Context, db bun.IDB, tournamentID, matchID, participantID string) (*Prediction, error) {
	db = r.conn(db)

	p := new(Prediction)
	err := db.NewSelect().
		Model(p).
		Where("p.tournament_id = ?", tournamentID).
		Where("p.match_id = ?", matchID).
		Where("p.participant_id = ?", participantID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("predictiondb.GetPrediction: %w", err)
	}
	return p, nil
}

// ListPredictions returns all predictions for the given matches.
func (r *Impl) ListPredictions(ctx context.Context, db bun.IDB, tournamentID string, matchIDs []string) ([]Prediction, error) {
	if len(matchIDs) == 0 {
		return []Prediction{}, nil
	}
	db = r.conn(db)

	var predictions []Prediction
	err := db.NewSelect().
		Model(&predictions).
		Where("p.tournament_id = ?", tournamentID).
		Where("p.match_id IN (?)", bun.In(matchIDs)).
		Order("p.participant_id ASC", "p.match_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("predictiondb.ListPredictions: %w", err)
	}
	return predictions, nil
}

// InsertDefaultPredictions inserts default rows, skipping pairs that already
// have a prediction.
func (r *Impl) InsertDefaultPredictions(ctx context.Context, db bun.IDB, rows []*Prediction) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	db = r.conn(db)

	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		row.IsDefault = true
	}

	res, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (tournament_id, match_id, participant_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("predictiondb.InsertDefaultPredictions: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("predictiondb.InsertDefaultPredictions: %w", err)
	}
	return int(n), nil
}
