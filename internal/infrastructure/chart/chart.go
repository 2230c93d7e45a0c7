package chart

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	crerr "github.com/cockroachdb/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/riskibarqy/football-dashboard/internal/domain/scorer"
	"github.com/riskibarqy/football-dashboard/internal/domain/standing"
)

// ErrNoData is returned when there is nothing worth plotting.
var ErrNoData = errors.New("no chart data")

var (
	colorGoalsFor     = drawing.ColorFromHex("1f77b4")
	colorGoalsAgainst = drawing.ColorFromHex("d62728")
	colorScorer       = drawing.ColorFromHex("2ca02c")
)

const (
	defaultHeight = 512
	minWidth      = 800
	barWidth      = 56
	barSpacing    = 12
	paddingLeft   = 16
	paddingRight  = 48
	maxLabelRunes = 9
)

// Renderer draws the dashboard charts as PNG images.
type Renderer struct {
	height int
}

func NewRenderer() *Renderer {
	return &Renderer{height: defaultHeight}
}

// GoalsBalance stacks goals for over goals against per team, in table order.
func (r *Renderer) GoalsBalance(entries []standing.Entry) ([]byte, error) {
	bars := make([]gochart.StackedBar, 0, len(entries))
	total := 0
	for _, entry := range entries {
		total += entry.GoalsFor + entry.GoalsAgainst
		bars = append(bars, gochart.StackedBar{
			Name:  shortLabel(entry.Team.DisplayName()),
			Width: barWidth,
			Values: []gochart.Value{
				{Label: "GF", Value: float64(entry.GoalsFor), Style: gochart.Style{FillColor: colorGoalsFor, StrokeColor: colorGoalsFor}},
				{Label: "GC", Value: float64(entry.GoalsAgainst), Style: gochart.Style{FillColor: colorGoalsAgainst, StrokeColor: colorGoalsAgainst}},
			},
		})
	}
	if len(bars) == 0 || total == 0 {
		return nil, ErrNoData
	}

	// Word wrapping a label wider than its slot makes go-chart compute a
	// negative canvas, so labels stay on one line and are kept short.
	graph := gochart.StackedBarChart{
		Title:      "Goles a Favor vs En Contra",
		Width:      max(minWidth, len(bars)*(barWidth+barSpacing)+paddingLeft+paddingRight),
		Height:     r.height,
		BarSpacing: barSpacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 48, Left: paddingLeft, Right: paddingRight, Bottom: 16}},
		XAxis:      gochart.Style{TextWrap: gochart.TextWrapNone},
		Bars:       bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, crerr.Wrap(err, "render goals balance chart")
	}
	return buf.Bytes(), nil
}

// GoalsVsAssists scatters each scorer with goals on X and assists on Y.
func (r *Renderer) GoalsVsAssists(scorers []scorer.Scorer) ([]byte, error) {
	if len(scorers) == 0 {
		return nil, ErrNoData
	}

	xs := make([]float64, 0, len(scorers))
	ys := make([]float64, 0, len(scorers))
	maxX, maxY := 0.0, 0.0
	for _, s := range scorers {
		x, y := float64(s.Goals), float64(s.Assists)
		xs = append(xs, x)
		ys = append(ys, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}

	// Fixed ranges from zero keep go-chart from rejecting a flat series.
	graph := gochart.Chart{
		Title:      "Goles vs Asistencias",
		Width:      minWidth,
		Height:     r.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 48, Left: 16, Right: 24, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  "Goles",
			Range: &gochart.ContinuousRange{Min: 0, Max: maxX + 1},
		},
		YAxis: gochart.YAxis{
			Name:  "Asistencias",
			Range: &gochart.ContinuousRange{Min: 0, Max: maxY + 1},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name: "Goleadores",
				Style: gochart.Style{
					StrokeWidth: gochart.Disabled,
					DotWidth:    5,
					DotColor:    colorScorer,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, crerr.Wrap(err, "render goals vs assists chart")
	}
	return buf.Bytes(), nil
}

func shortLabel(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= maxLabelRunes {
		return name
	}
	runes := []rune(name)
	return string(runes[:maxLabelRunes-1]) + "."
}
