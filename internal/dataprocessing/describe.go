package dataprocessing

import (
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"studentlens/pkg/contracts/domain"
)

// describeStats are the rows produced by a dataframe describe, in order.
var describeStats = []string{"mean", "median", "stddev", "min", "25%", "50%", "75%", "max"}

// Describe summarises every numeric column of t: count followed by the
// dataframe describe figures. Missing cells are skipped per column.
func Describe(t *domain.Table) (*domain.DescribeTable, error) {
	columns := NumericColumns(t)

	out := &domain.DescribeTable{
		Header: append([]string{"statistic"}, columns...),
		Rows:   make([][]string, 0, len(describeStats)+1),
	}

	count := []string{"count"}
	grid := make(map[string][]string, len(describeStats))
	for _, name := range describeStats {
		grid[name] = []string{name}
	}

	for _, col := range columns {
		values, err := numericValues(t, col)
		if err != nil {
			return nil, err
		}
		count = append(count, strconv.Itoa(len(values)))

		figures := describeColumn(col, values)
		for _, name := range describeStats {
			grid[name] = append(grid[name], figures[name])
		}
	}

	out.Rows = append(out.Rows, count)
	for _, name := range describeStats {
		out.Rows = append(out.Rows, grid[name])
	}
	return out, nil
}

// describeColumn runs the dataframe describe over one column's values.
func describeColumn(name string, values []float64) map[string]string {
	figures := make(map[string]string, len(describeStats))
	for _, stat := range describeStats {
		figures[stat] = "NaN"
	}
	if len(values) == 0 {
		return figures
	}

	df := dataframe.New(series.New(values, series.Float, name))
	summary := df.Describe()
	if summary.Err != nil {
		return figures
	}

	records := summary.Records()
	for _, rec := range records[1:] {
		if len(rec) < 2 {
			continue
		}
		figures[rec[0]] = formatFigure(rec[1])
	}
	return figures
}

func formatFigure(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(round2(f), 'f', 2, 64)
}
