package predictiondb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// ListUnarchivedMatchdays lists matchdays with at least one fixture and no
// archive record.
func (r *Impl) ListUnarchivedMatchdays(ctx context.Context, db bun.IDB) ([]MatchdayRef, error) {
	db = r.conn(db)

	var refs []MatchdayRef
	err := db.NewSelect().
		Model((*Match)(nil)).
		ColumnExpr("m.tournament_id, m.matchday").
		Where("NOT EXISTS (SELECT 1 FROM matchday_archives AS ma WHERE ma.tournament_id = m.tournament_id AND ma.matchday = m.matchday)").
		Group("m.tournament_id", "m.matchday").
		Order("m.tournament_id ASC", "m.matchday ASC").
		Scan(ctx, &refs)
	if err != nil {
		return nil, fmt.Errorf("predictiondb.ListUnarchivedMatchdays: %w", err)
	}
	return refs, nil
}

// SaveMatchdayArchive records an uploaded export.
func (r *Impl) SaveMatchdayArchive(ctx context.Context, db bun.IDB, a *MatchdayArchive) error {
	db = r.conn(db)

	_, err := db.NewInsert().
		Model(a).
		On("CONFLICT (tournament_id, matchday) DO UPDATE").
		Set("object_key = EXCLUDED.object_key").
		Set("archived_at = EXCLUDED.archived_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("predictiondb.SaveMatchdayArchive: %w", err)
	}
	return nil
}
