package dataprocessing

import (
	apierrors "studentlens/internal/errors"
	"studentlens/pkg/contracts/domain"
)

// AgeBandFor returns the band holding age, or false when age is outside (0, 100].
func AgeBandFor(age float64) (domain.AgeBand, bool) {
	for _, band := range domain.AgeBands {
		if band.Contains(age) {
			return band, true
		}
	}
	return domain.AgeBand{}, false
}

// AgeBands counts rows per age band. Every band is listed; empty ones are
// flagged. Rows with a missing or out-of-range age count as unbanded.
func AgeBands(t *domain.Table) (*domain.AgeBandReport, error) {
	if err := RequireColumns(t, domain.ColumnAge); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(domain.AgeBands))
	report := &domain.AgeBandReport{
		Bands:      make([]domain.AgeBandCount, 0, len(domain.AgeBands)),
		EmptyBands: []string{},
	}

	for _, v := range t.Column(domain.ColumnAge) {
		if v.IsMissing() {
			report.Unbanded++
			continue
		}
		age, ok := v.Number()
		if !ok {
			return nil, apierrors.InvalidColumn(domain.ColumnAge, "contains non-numeric values")
		}
		band, ok := AgeBandFor(age)
		if !ok {
			report.Unbanded++
			continue
		}
		counts[band.Label]++
	}

	for _, band := range domain.AgeBands {
		n := counts[band.Label]
		report.Bands = append(report.Bands, domain.AgeBandCount{
			AgeBand:   band,
			Count:     n,
			NoRecords: n == 0,
		})
		if n == 0 {
			report.EmptyBands = append(report.EmptyBands, band.Label)
		}
	}

	return report, nil
}
