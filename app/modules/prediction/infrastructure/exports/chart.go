package predictionexports

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// PointsChart renders a PNG line chart of cumulative points per matchday.
func (r *Renderer) PointsChart(series PointsSeries) ([]byte, error) {
	if len(series.Matchdays) == 0 {
		return r.renderNoDataPlaceholder("No scored matchdays yet")
	}
	if len(series.Matchdays) != len(series.Points) {
		return nil, fmt.Errorf("predictionexports.PointsChart: %d matchdays but %d point values", len(series.Matchdays), len(series.Points))
	}

	// The line starts at zero before the first matchday, which also gives
	// go-chart the two x values it needs.
	xValues := make([]float64, 0, len(series.Matchdays)+1)
	yValues := make([]float64, 0, len(series.Matchdays)+1)
	xValues = append(xValues, float64(series.Matchdays[0]-1))
	yValues = append(yValues, 0)

	total, maxY, minY := 0, 0, 0
	for i, md := range series.Matchdays {
		total += series.Points[i]
		xValues = append(xValues, float64(md))
		yValues = append(yValues, float64(total))
		maxY = max(maxY, total)
		minY = min(minY, total)
	}
	if maxY == minY {
		maxY = minY + 1
	}

	mainSeries := chart.ContinuousSeries{
		Name:    "Points",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: drawing.Color(r.palette.PrimaryLine),
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    drawing.Color(r.palette.AccentLine),
		},
	}

	graph := chart.Chart{
		Title:  series.Title,
		Width:  800,
		Height: 400,
		TitleStyle: chart.Style{
			FontColor: drawing.Color(r.palette.TextColor),
		},
		Background: chart.Style{
			FillColor: drawing.Color(r.palette.Background),
		},
		Canvas: chart.Style{
			FillColor: drawing.Color(r.palette.Background),
		},
		XAxis: chart.XAxis{
			Name:           "Matchday",
			ValueFormatter: matchdayFormatter,
			Style: chart.Style{
				FontColor: drawing.Color(r.palette.TextColor),
			},
		},
		YAxis: chart.YAxis{
			Name: "Points",
			Style: chart.Style{
				FontColor: drawing.Color(r.palette.TextColor),
			},
			Range: &chart.ContinuousRange{
				Min: float64(minY),
				Max: float64(maxY),
			},
		},
		Series: []chart.Series{mainSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("predictionexports.PointsChart: %w", err)
	}
	return buffer.Bytes(), nil
}

func matchdayFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(f))
	}
	return ""
}

func (r *Renderer) renderNoDataPlaceholder(msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	// go-chart refuses to render without a series, so the placeholder carries
	// an invisible one.
	blank := chart.ContinuousSeries{
		XValues: []float64{0, 1},
		YValues: []float64{0, 1},
		Style: chart.Style{
			StrokeColor: drawing.ColorTransparent,
		},
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: drawing.Color(r.palette.Background),
		},
		Canvas: chart.Style{
			FillColor: drawing.Color(r.palette.Background),
		},
		Series: []chart.Series{blank},
		Elements: []chart.Renderable{
			func(rr chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				rr.SetFontColor(drawing.Color(r.palette.TextColor))
				rr.SetFontSize(12.0)
				tb := rr.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				rr.Text(msg, x, y)
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("predictionexports.renderNoDataPlaceholder: %w", err)
	}
	return buffer.Bytes(), nil
}
