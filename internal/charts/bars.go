package charts

import (
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"studentlens/pkg/contracts/domain"
)

// NoRecordsSuffix marks bars of age bands without rows.
const NoRecordsSuffix = " (sem registros)"

var (
	barColor   = drawing.ColorFromHex("4C72B0")
	emptyColor = drawing.ColorFromHex("C8C8C8")
)

func barStyle(col drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   col,
		StrokeColor: col,
		StrokeWidth: 1,
	}
}

// AgeBands draws one bar per band in band order. Empty bands keep their bar
// slot and are labelled with NoRecordsSuffix.
func (r *Renderer) AgeBands(w io.Writer, report *domain.AgeBandReport) error {
	bars := make([]chart.Value, 0, len(report.Bands))
	maxCount := 0
	for _, b := range report.Bands {
		label := b.Label
		style := barStyle(barColor)
		if b.NoRecords {
			label += NoRecordsSuffix
			style = barStyle(emptyColor)
		}
		bars = append(bars, chart.Value{Label: label, Value: float64(b.Count), Style: style})
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	return r.renderBars(w, KindAgeBands, "Distribuição por faixa etária", bars, maxCount)
}

// Gender draws the Female, Male and Other counts.
func (r *Renderer) Gender(w io.Writer, counts domain.GenderCounts) error {
	bars := []chart.Value{
		{Label: "Feminino", Value: float64(counts.Female), Style: barStyle(barColor)},
		{Label: "Masculino", Value: float64(counts.Male), Style: barStyle(barColor)},
		{Label: "Outros", Value: float64(counts.Other), Style: barStyle(barColor)},
	}
	maxCount := counts.Female
	if counts.Male > maxCount {
		maxCount = counts.Male
	}
	if counts.Other > maxCount {
		maxCount = counts.Other
	}

	return r.renderBars(w, KindGender, "Distribuição por gênero", bars, maxCount)
}

// renderBars fixes the y range so all-zero charts still render.
func (r *Renderer) renderBars(w io.Writer, kind Kind, title string, bars []chart.Value, maxCount int) error {
	top := float64(maxCount)
	if top < 1 {
		top = 1
	}

	bc := chart.BarChart{
		Title:  title,
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		BarWidth: r.opts.Width / (2*len(bars) + 1),
		YAxis: chart.YAxis{
			Name:  "Registros",
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return renderError(kind, err)
	}
	return nil
}
