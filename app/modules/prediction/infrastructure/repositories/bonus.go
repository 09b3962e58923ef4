package predictiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// ListBonusMatches returns the designations of a tournament.
func (r *Impl) ListBonusMatches(ctx context.Context, db bun.IDB, tournamentID string) ([]BonusMatch, error) {
	db = r.conn(db)

	var designations []BonusMatch
	err := db.NewSelect().
		Model(&designations).
		Where("bm.tournament_id = ?", tournamentID).
		Order("bm.matchday ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("predictiondb.ListBonusMatches: %w", err)
	}
	return designations, nil
}

// InsertBonusMatch keeps the first designation of a matchday.
func (r *Impl) InsertBonusMatch(ctx context.Context, db bun.IDB, b *BonusMatch) (bool, error) {
	db = r.conn(db)

	res, err := db.NewInsert().
		Model(b).
		On("CONFLICT (tournament_id, matchday) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("predictiondb.InsertBonusMatch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("predictiondb.InsertBonusMatch: %w", err)
	}
	return n > 0, nil
}

// GetBonusMatch returns the designation of one matchday.
func (r *Impl) GetBonusMatch(ctx context.Context, db bun.IDB, tournamentID string, matchday int) (*BonusMatch, error) {
	db = r.conn(db)

	b := new(BonusMatch)
	err := db.NewSelect().
		Model(b).
		Where("bm.tournament_id = ?", tournamentID).
		Where("bm.matchday = ?", matchday).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("predictiondb.GetBonusMatch: %w", err)
	}
	return b, nil
}
