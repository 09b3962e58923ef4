package predictionservice

import (
	"context"
	"fmt"
	"log/slog"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictionexports "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/exports"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"github.com/gosimple/slug"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pngContentType  = "image/png"
)

// ExportMatchdayStandings renders a matchday's standings as a workbook.
func (s *PredictionService) ExportMatchdayStandings(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (*Export, error) {
	return withTelemetry(s, ctx, "ExportMatchdayStandings", tournamentID, func(ctx context.Context) (*Export, error) {
		if s.renderer == nil {
			return nil, ErrExportUnavailable
		}
		in, err := s.loadInputs(ctx, tournamentID, &matchday)
		if err != nil {
			return nil, err
		}
		return s.exportMatchday(tournamentID, matchday, in)
	})
}

// exportMatchday renders from in so the workbook matches the snapshot the
// caller already inspected.
func (s *PredictionService) exportMatchday(tournamentID predictiondomain.TournamentID, matchday int, in *scoringInputs) (*Export, error) {
	standings := s.standingsFor(tournamentID, matchday, in)

	body, err := s.renderer.StandingsWorkbook(predictionexports.StandingsReport{
		Title:        matchdayLabel(tournamentID, matchday),
		TournamentID: tournamentID,
		Matchday:     matchday,
		Complete:     standings.Complete,
		BonusMatchID: standings.BonusMatchID,
		Matches:      in.matchesOf(matchday),
		Aggregates:   standings.Aggregates,
		Standings:    standings.Standings,
	})
	if err != nil {
		return nil, err
	}
	return &Export{
		Filename:    matchdayFilename(tournamentID, matchday),
		ContentType: xlsxContentType,
		Body:        body,
	}, nil
}

// RenderParticipantChart renders a participant's cumulative points over the
// scored matchdays of a tournament.
func (s *PredictionService) RenderParticipantChart(ctx context.Context, tournamentID predictiondomain.TournamentID, participantID predictiondomain.ParticipantID) (*Export, error) {
	return withTelemetry(s, ctx, "RenderParticipantChart", tournamentID, func(ctx context.Context) (*Export, error) {
		if s.renderer == nil {
			return nil, ErrExportUnavailable
		}
		in, err := s.loadInputs(ctx, tournamentID, nil)
		if err != nil {
			return nil, err
		}

		byMatchday, scored := s.tournamentAggregates(in)
		series := predictionexports.PointsSeries{Title: string(participantID)}
		for _, md := range scored {
			for _, a := range byMatchday[md] {
				if a.ParticipantID == participantID {
					series.Matchdays = append(series.Matchdays, md)
					series.Points = append(series.Points, a.Total)
					break
				}
			}
		}

		body, err := s.renderer.PointsChart(series)
		if err != nil {
			return nil, err
		}
		return &Export{
			Filename:    fmt.Sprintf("%s-%s.png", slug.Make(string(tournamentID)), slug.Make(string(participantID))),
			ContentType: pngContentType,
			Body:        body,
		}, nil
	})
}

// ArchiveFinishedMatchdays uploads a standings workbook for every completed
// matchday not archived yet. A failing matchday is logged and retried on the
// next sweep. It returns how many matchdays were archived.
func (s *PredictionService) ArchiveFinishedMatchdays(ctx context.Context) (int, error) {
	return withTelemetry(s, ctx, "ArchiveFinishedMatchdays", "", func(ctx context.Context) (int, error) {
		if s.renderer == nil || s.store == nil {
			return 0, ErrExportUnavailable
		}

		refs, err := s.repo.ListUnarchivedMatchdays(ctx, nil)
		if err != nil {
			return 0, err
		}

		archived := 0
		for _, ref := range refs {
			ok, err := s.archiveMatchday(ctx, predictiondomain.TournamentID(ref.TournamentID), ref.Matchday)
			if err != nil {
				s.logger.ErrorContext(ctx, "Failed to archive matchday",
					slog.String("tournament_id", ref.TournamentID),
					slog.Int("matchday", ref.Matchday),
					slog.Any("error", err),
				)
				continue
			}
			if ok {
				archived++
			}
		}
		return archived, nil
	})
}

func (s *PredictionService) archiveMatchday(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (bool, error) {
	in, err := s.loadInputs(ctx, tournamentID, &matchday)
	if err != nil {
		return false, err
	}
	if !predictiondomain.MatchdayComplete(in.matches, in.cfg) {
		return false, nil
	}

	export, err := s.exportMatchday(tournamentID, matchday, in)
	if err != nil {
		return false, err
	}

	key := archiveKey(tournamentID, matchday)
	if err := s.store.Put(ctx, key, export.ContentType, export.Body); err != nil {
		return false, err
	}
	if err := s.repo.SaveMatchdayArchive(ctx, nil, &predictiondb.MatchdayArchive{
		TournamentID: string(tournamentID),
		Matchday:     matchday,
		ObjectKey:    key,
		ArchivedAt:   s.clock.Now(),
	}); err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "Matchday archived",
		slog.String("tournament_id", string(tournamentID)),
		slog.Int("matchday", matchday),
		slog.String("object_key", key),
	)
	return true, nil
}

func matchdayFilename(tournamentID predictiondomain.TournamentID, matchday int) string {
	return fmt.Sprintf("%s-matchday-%02d.xlsx", slug.Make(string(tournamentID)), matchday)
}

func archiveKey(tournamentID predictiondomain.TournamentID, matchday int) string {
	return fmt.Sprintf("standings/%s/matchday-%02d.xlsx", slug.Make(string(tournamentID)), matchday)
}
