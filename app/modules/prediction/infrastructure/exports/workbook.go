package predictionexports

import (
	"fmt"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	"github.com/xuri/excelize/v2"
)

const (
	StandingsSheet = "Standings"
	MatchesSheet   = "Matches"
)

var standingsHeader = []interface{}{"Rank", "Participant", "Points", "Exact", "Correct", "Played", "Early bonuses"}

// StandingsWorkbook renders a matchday report as an XLSX workbook with a
// ranked standings sheet and a per-match points sheet.
func (r *Renderer) StandingsWorkbook(report StandingsReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDocProps(&excelize.DocProperties{Title: report.Title}); err != nil {
		return nil, fmt.Errorf("predictionexports.StandingsWorkbook: %w", err)
	}
	if err := f.SetSheetName("Sheet1", StandingsSheet); err != nil {
		return nil, fmt.Errorf("predictionexports.StandingsWorkbook: %w", err)
	}
	if _, err := f.NewSheet(MatchesSheet); err != nil {
		return nil, fmt.Errorf("predictionexports.StandingsWorkbook: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("predictionexports.StandingsWorkbook: %w", err)
	}

	if err := writeStandings(f, report, bold); err != nil {
		return nil, fmt.Errorf("predictionexports.StandingsWorkbook: %w", err)
	}
	if err := writeMatches(f, report, bold); err != nil {
		return nil, fmt.Errorf("predictionexports.StandingsWorkbook: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("predictionexports.StandingsWorkbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStandings(f *excelize.File, report StandingsReport, headerStyle int) error {
	if err := f.SetSheetRow(StandingsSheet, "A1", &standingsHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(StandingsSheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, s := range report.Standings {
		row := []interface{}{s.Rank, string(s.ParticipantID), s.TotalPoints, s.ExactScores, s.CorrectResults, s.MatchesPlayed, s.EarlyBonuses}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(StandingsSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(StandingsSheet, "B", "B", 24)
}

// writeMatches lays out one column per match. A cell is left empty when the
// match contributed nothing for that participant. The bonus match header is
// marked with an asterisk.
func writeMatches(f *excelize.File, report StandingsReport, headerStyle int) error {
	header := []interface{}{"Participant"}
	for _, m := range report.Matches {
		header = append(header, matchHeader(m, m.ID == report.BonusMatchID))
	}
	header = append(header, "Total")
	if err := f.SetSheetRow(MatchesSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(MatchesSheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, agg := range report.Aggregates {
		row := []interface{}{string(agg.ParticipantID)}
		for _, m := range report.Matches {
			if mp, ok := agg.PerMatch[m.ID]; ok {
				row = append(row, mp.Points)
			} else {
				row = append(row, nil)
			}
		}
		row = append(row, agg.Total)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(MatchesSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(MatchesSheet, "A", "A", 24)
}

func matchHeader(m predictiondomain.Match, bonus bool) string {
	label := fmt.Sprintf("%s - %s", m.HomeTeam, m.AwayTeam)
	if m.HomeTeam == "" && m.AwayTeam == "" {
		label = string(m.ID)
	}
	if score := m.ScoringScore(); score != nil {
		label = fmt.Sprintf("%s (%d-%d)", label, score.Home, score.Away)
	}
	if bonus {
		label += " *"
	}
	return label
}
