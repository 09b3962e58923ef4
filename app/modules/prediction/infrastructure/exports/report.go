package predictionexports

import (
	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
)

// StandingsReport is the data behind a matchday standings workbook.
type StandingsReport struct {
	Title        string
	TournamentID predictiondomain.TournamentID
	Matchday     int
	Complete     bool
	BonusMatchID predictiondomain.MatchID
	Matches      []predictiondomain.Match
	Aggregates   []predictiondomain.MatchdayAggregate
	Standings    []predictiondomain.Standing
}

// PointsSeries is one participant's points per matchday. Matchdays and
// Points are parallel slices.
type PointsSeries struct {
	Title     string
	Matchdays []int
	Points    []int
}

// Palette holds the chart colors as RGBA values.
type Palette struct {
	Background  Color
	PrimaryLine Color
	AccentLine  Color
	TextColor   Color
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// DefaultPalette is a dark background with a green line and gold dots.
var DefaultPalette = Palette{
	Background:  Color{R: 0x12, G: 0x1a, B: 0x16, A: 0xff},
	PrimaryLine: Color{R: 0x3f, G: 0xa3, B: 0x6b, A: 0xff},
	AccentLine:  Color{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff},
	TextColor:   Color{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff},
}

// Renderer renders workbooks and charts.
type Renderer struct {
	palette Palette
}

// NewRenderer creates a Renderer using palette.
func NewRenderer(palette Palette) *Renderer {
	return &Renderer{palette: palette}
}
