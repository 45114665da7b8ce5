package charts

import (
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	apierrors "studentlens/internal/errors"
	"studentlens/pkg/contracts/domain"
)

var (
	histFill     = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	scatterColor = color.RGBA{R: 221, G: 132, B: 82, A: 255}
)

// Distribution draws a histogram of one numeric column.
func (r *Renderer) Distribution(w io.Writer, column string, values []float64) error {
	if len(values) == 0 {
		return apierrors.EmptyStatisticsInput(column)
	}

	p := plot.New()
	p.Title.Text = "Distribuição de " + column
	p.X.Label.Text = column
	p.Y.Label.Text = "Frequência"

	h, err := plotter.NewHist(plotter.Values(values), r.opts.Bins)
	if err != nil {
		return renderError(KindDistribution, err)
	}
	h.FillColor = histFill
	p.Add(h)

	return r.save(w, KindDistribution, p)
}

// AttendanceScore draws Final_Score against Attendance (%).
func (r *Renderer) AttendanceScore(w io.Writer, attendance, scores []float64) error {
	if len(attendance) == 0 {
		return apierrors.EmptyStatisticsInput(domain.ColumnAttendance)
	}

	pts := make(plotter.XYs, len(attendance))
	for i := range attendance {
		pts[i].X = attendance[i]
		pts[i].Y = scores[i]
	}

	p := plot.New()
	p.Title.Text = "Frequência x Nota final"
	p.X.Label.Text = domain.ColumnAttendance
	p.Y.Label.Text = domain.ColumnFinalScore
	p.Add(plotter.NewGrid())

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return renderError(KindAttendanceScore, err)
	}
	s.GlyphStyle.Color = scatterColor
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)

	return r.save(w, KindAttendanceScore, p)
}

// save writes p as a Width x Height pixel PNG. At 72 DPI one point is one pixel.
func (r *Renderer) save(w io.Writer, kind Kind, p *plot.Plot) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Points(float64(r.opts.Width)), vg.Points(float64(r.opts.Height))),
		vgimg.UseDPI(72),
	)
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return renderError(kind, err)
	}
	return nil
}
