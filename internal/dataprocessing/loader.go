package dataprocessing

import (
	"io"

	apierrors "studentlens/internal/errors"
	"studentlens/pkg/contracts/domain"
)

// LoadResult is a freshly loaded table and how many "None" cells were rewritten.
type LoadResult struct {
	Table      *domain.Table
	Format     Format
	Normalized int
}

// Load decodes r according to filename's suffix and normalizes "None" cells
// to the missing marker.
func Load(r io.Reader, filename string) (*LoadResult, error) {
	format, err := FormatFromName(filename)
	if err != nil {
		return nil, err
	}

	parser, ok := ParserFor(format)
	if !ok {
		return nil, apierrors.UnsupportedFormat(filename)
	}

	table, err := parser.Parse(r)
	if err != nil {
		return nil, apierrors.MalformedDataset(filename, err)
	}

	return &LoadResult{
		Table:      table,
		Format:     format,
		Normalized: NormalizeMissing(table),
	}, nil
}

// NormalizeMissing rewrites every cell holding the literal text "None" to the
// missing marker and returns how many cells changed. Running it twice changes nothing.
func NormalizeMissing(t *domain.Table) int {
	changed := 0
	columns := t.Columns()
	for i := 0; i < t.Len(); i++ {
		for _, col := range columns {
			if s, ok := t.Value(i, col).Text(); ok && s == domain.NoneLiteral {
				t.Set(i, col, domain.Missing())
				changed++
			}
		}
	}
	return changed
}

// RequireColumns fails with ErrMissingColumn on the first absent column.
func RequireColumns(t *domain.Table, columns ...string) error {
	for _, col := range columns {
		if !t.HasColumn(col) {
			return apierrors.MissingColumn(col)
		}
	}
	return nil
}
