package predictionexports

import (
	"bytes"
	"testing"
	"time"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func sampleReport() StandingsReport {
	kickoff := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	return StandingsReport{
		Title:        "cup matchday 1",
		TournamentID: "cup",
		Matchday:     1,
		Complete:     true,
		BonusMatchID: "m2",
		Matches: []predictiondomain.Match{
			{ID: "m1", Matchday: 1, Kickoff: kickoff, HomeTeam: "Lions", AwayTeam: "Tigers", Status: predictiondomain.MatchStatusFinished, FinalScore: &predictiondomain.Score{Home: 2, Away: 1}},
			{ID: "m2", Matchday: 1, Kickoff: kickoff, HomeTeam: "Bears", AwayTeam: "Wolves", Status: predictiondomain.MatchStatusFinished, FinalScore: &predictiondomain.Score{Home: 0, Away: 0}},
		},
		Aggregates: []predictiondomain.MatchdayAggregate{
			{ParticipantID: "alice", Matchday: 1, Total: 9, PerMatch: map[predictiondomain.MatchID]predictiondomain.MatchPoints{
				"m1": {Points: 3, IsExact: true, IsCorrect: true},
				"m2": {Points: 6, IsExact: true, IsCorrect: true, IsBonus: true},
			}},
			{ParticipantID: "bob", Matchday: 1, Total: 1, PerMatch: map[predictiondomain.MatchID]predictiondomain.MatchPoints{
				"m2": {Points: 1, IsDefault: true, IsCorrect: true},
			}},
		},
		Standings: []predictiondomain.Standing{
			{ParticipantID: "alice", TotalPoints: 9, ExactScores: 2, CorrectResults: 2, MatchesPlayed: 2, Rank: 1},
			{ParticipantID: "bob", TotalPoints: 1, Rank: 2},
		},
	}
}

func TestStandingsWorkbook(t *testing.T) {
	r := NewRenderer(DefaultPalette)

	data, err := r.StandingsWorkbook(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{StandingsSheet, MatchesSheet}, f.GetSheetList())

	rows, err := f.GetRows(StandingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rank", rows[0][0])
	assert.Equal(t, []string{"1", "alice", "9", "2", "2", "2", "0"}, rows[1])
	assert.Equal(t, []string{"2", "bob", "1", "0", "0", "0", "0"}, rows[2])

	rows, err = f.GetRows(MatchesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Participant", "Lions - Tigers (2-1)", "Bears - Wolves (0-0) *", "Total"}, rows[0])
	assert.Equal(t, []string{"alice", "3", "6", "9"}, rows[1])
	assert.Equal(t, []string{"bob", "", "1", "1"}, rows[2])
}

func TestStandingsWorkbookEmpty(t *testing.T) {
	r := NewRenderer(DefaultPalette)

	data, err := r.StandingsWorkbook(StandingsReport{Title: "empty"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(StandingsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMatchHeaderFallsBackToID(t *testing.T) {
	assert.Equal(t, "m9", matchHeader(predictiondomain.Match{ID: "m9"}, false))
	assert.Equal(t, "m9 *", matchHeader(predictiondomain.Match{ID: "m9"}, true))
}

func TestPointsChart(t *testing.T) {
	r := NewRenderer(DefaultPalette)

	tests := []struct {
		name   string
		series PointsSeries
	}{
		{name: "several matchdays", series: PointsSeries{Title: "alice", Matchdays: []int{1, 2, 3}, Points: []int{4, 0, 7}}},
		{name: "single matchday", series: PointsSeries{Matchdays: []int{1}, Points: []int{3}}},
		{name: "all zero", series: PointsSeries{Matchdays: []int{1, 2}, Points: []int{0, 0}}},
		{name: "no data", series: PointsSeries{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := r.PointsChart(tt.series)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, pngHeader), "expected PNG output")
		})
	}
}

func TestPointsChartMismatchedSeries(t *testing.T) {
	r := NewRenderer(DefaultPalette)

	_, err := r.PointsChart(PointsSeries{Matchdays: []int{1, 2}, Points: []int{1}})
	assert.Error(t, err)
}
