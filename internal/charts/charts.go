package charts

import (
	"fmt"
	"io"
	"log/slog"

	"studentlens/internal/dataprocessing"
	apierrors "studentlens/internal/errors"
	"studentlens/pkg/contracts/domain"
)

// Kind names a chart.
type Kind string

const (
	KindAgeBands        Kind = "age-bands"
	KindGender          Kind = "gender"
	KindDistribution    Kind = "distribution"
	KindAttendanceScore Kind = "attendance-score"
)

// ContentType is the media type of every rendered chart.
const ContentType = "image/png"

var (
	simpleKinds   = []Kind{KindAgeBands, KindGender}
	detailedKinds = []Kind{KindAgeBands, KindGender, KindDistribution, KindAttendanceScore}
)

// KindsFor lists the charts offered in simple or detailed mode.
func KindsFor(detailed bool) []Kind {
	src := simpleKinds
	if detailed {
		src = detailedKinds
	}
	out := make([]Kind, len(src))
	copy(out, src)
	return out
}

// Available reports whether kind may be rendered in the given mode.
func Available(kind Kind, detailed bool) bool {
	for _, k := range KindsFor(detailed) {
		if k == kind {
			return true
		}
	}
	return false
}

// Options sizes rendered charts in pixels.
type Options struct {
	Width  int
	Height int
	Bins   int
}

// DefaultOptions returns the sizes used when none are configured.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 480, Bins: 10}
}

// Renderer draws charts for a cleaned table as PNG.
type Renderer struct {
	opts   Options
	logger *slog.Logger
}

// NewRenderer creates a renderer. Zero option fields take their defaults.
func NewRenderer(opts Options, logger *slog.Logger) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Bins <= 0 {
		opts.Bins = def.Bins
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		opts:   opts,
		logger: logger.With(slog.String("component", "charts")),
	}
}

// Render draws kind for t. column selects the histogram column and is
// ignored by the other kinds.
func (r *Renderer) Render(w io.Writer, kind Kind, t *domain.Table, column string) error {
	r.logger.Debug("rendering chart",
		slog.String("chart", string(kind)),
		slog.String("column", column),
		slog.Int("rows", t.Len()))

	switch kind {
	case KindAgeBands:
		report, err := dataprocessing.AgeBands(t)
		if err != nil {
			return err
		}
		return r.AgeBands(w, report)

	case KindGender:
		counts, err := dataprocessing.GenderCounts(t)
		if err != nil {
			return err
		}
		return r.Gender(w, counts)

	case KindDistribution:
		values, err := dataprocessing.NumericValues(t, column)
		if err != nil {
			return err
		}
		return r.Distribution(w, column, values)

	case KindAttendanceScore:
		xs, ys, err := dataprocessing.PairedValues(t, domain.ColumnAttendance, domain.ColumnFinalScore)
		if err != nil {
			return err
		}
		return r.AttendanceScore(w, xs, ys)
	}

	return apierrors.UnknownChart(string(kind))
}

func renderError(kind Kind, err error) error {
	return fmt.Errorf("render %s chart: %w", kind, err)
}
