package dataprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	apierrors "studentlens/internal/errors"
	"studentlens/pkg/contracts/domain"
)

// Gender values counted by GenderCounts. Matching is exact.
const (
	GenderFemale = "Female"
	GenderMale   = "Male"
)

// ComputeStatistics summarises one numeric column of t. Missing cells are
// skipped; every figure is rounded to two decimals.
func ComputeStatistics(t *domain.Table, column string) (*domain.ColumnStatistics, error) {
	if err := RequireColumns(t, column); err != nil {
		return nil, err
	}

	values, err := numericValues(t, column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, apierrors.EmptyStatisticsInput(column)
	}

	result := &domain.ColumnStatistics{
		Column: column,
		Count:  len(values),
		Mean:   round2(stat.Mean(values, nil)),
		Median: round2(median(values)),
		Mode:   round2(mode(values)),
	}
	if len(values) > 1 {
		sd := round2(stat.StdDev(values, nil))
		result.StdDev = &sd
	}
	return result, nil
}

// GenderCounts counts "Female" and "Male" rows; every other value, missing
// included, counts as Other.
func GenderCounts(t *domain.Table) (domain.GenderCounts, error) {
	var counts domain.GenderCounts
	if err := RequireColumns(t, domain.ColumnGender); err != nil {
		return counts, err
	}

	for _, v := range t.Column(domain.ColumnGender) {
		s, _ := v.Text()
		switch {
		case v.Kind() == domain.KindString && s == GenderFemale:
			counts.Female++
		case v.Kind() == domain.KindString && s == GenderMale:
			counts.Male++
		default:
			counts.Other++
		}
	}
	return counts, nil
}

// CountMissing returns the number of missing cells in column; zero when the
// column does not exist.
func CountMissing(t *domain.Table, column string) int {
	if !t.HasColumn(column) {
		return 0
	}
	n := 0
	for _, v := range t.Column(column) {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// NumericColumns lists, in table order, the columns that hold no text cells.
func NumericColumns(t *domain.Table) []string {
	var out []string
	for _, col := range t.Columns() {
		numeric := true
		for _, v := range t.Column(col) {
			if v.Kind() == domain.KindString {
				numeric = false
				break
			}
		}
		if numeric {
			out = append(out, col)
		}
	}
	return out
}

// median returns the middle value, or the mean of the two middle values.
// values must not be empty.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// mode returns the most frequent value; ties resolve to the smallest.
// values must not be empty.
func mode(values []float64) float64 {
	freq := make(map[float64]int, len(values))
	for _, v := range values {
		freq[v]++
	}

	best, bestCount := math.Inf(1), 0
	for v, n := range freq {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// NumericValues returns the non-missing values of column in row order.
func NumericValues(t *domain.Table, column string) ([]float64, error) {
	if err := RequireColumns(t, column); err != nil {
		return nil, err
	}
	return numericValues(t, column)
}

// PairedValues returns, for every row where both columns hold a number, the
// x and y values in row order.
func PairedValues(t *domain.Table, xColumn, yColumn string) (xs, ys []float64, err error) {
	if err := RequireColumns(t, xColumn, yColumn); err != nil {
		return nil, nil, err
	}
	for i := 0; i < t.Len(); i++ {
		xv, yv := t.Value(i, xColumn), t.Value(i, yColumn)
		if xv.Kind() == domain.KindString {
			return nil, nil, apierrors.InvalidColumn(xColumn, "contains non-numeric values")
		}
		if yv.Kind() == domain.KindString {
			return nil, nil, apierrors.InvalidColumn(yColumn, "contains non-numeric values")
		}
		x, okX := xv.Number()
		y, okY := yv.Number()
		if math.IsInf(x, 0) {
			return nil, nil, apierrors.InvalidColumn(xColumn, "contains infinite values")
		}
		if math.IsInf(y, 0) {
			return nil, nil, apierrors.InvalidColumn(yColumn, "contains infinite values")
		}
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys, nil
}
