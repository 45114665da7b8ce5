package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "studentlens/internal/errors"
	"studentlens/internal/shared/testutil"
	"studentlens/pkg/contracts/domain"
)

func TestAgeBandFor(t *testing.T) {
	tests := []struct {
		age    float64
		want   string
		banded bool
	}{
		{0, "", false},
		{0.5, "Até 17 anos", true},
		{17, "Até 17 anos", true},
		{17.5, "18 a 21 anos", true},
		{18, "18 a 21 anos", true},
		{21, "18 a 21 anos", true},
		{22, "22 a 24 anos", true},
		{24, "22 a 24 anos", true},
		{25, "25 anos ou mais", true},
		{100, "25 anos ou mais", true},
		{101, "", false},
		{-3, "", false},
	}

	for _, tt := range tests {
		band, ok := AgeBandFor(tt.age)
		assert.Equal(t, tt.banded, ok, "age %v", tt.age)
		assert.Equal(t, tt.want, band.Label, "age %v", tt.age)
	}
}

func TestAgeBands(t *testing.T) {
	table := testutil.NewTable(t, []string{domain.ColumnAge},
		[]any{17}, []any{18}, []any{24}, []any{25}, []any{19.5}, []any{nil}, []any{130},
	)

	report, err := AgeBands(table)
	require.NoError(t, err)

	require.Len(t, report.Bands, 4)
	counts := map[string]int{}
	for _, b := range report.Bands {
		counts[b.Label] = b.Count
		assert.False(t, b.NoRecords)
	}
	assert.Equal(t, map[string]int{
		"Até 17 anos":     1,
		"18 a 21 anos":    2,
		"22 a 24 anos":    1,
		"25 anos ou mais": 1,
	}, counts)
	assert.Empty(t, report.EmptyBands)
	assert.Equal(t, 2, report.Unbanded)
}

func TestAgeBands_EmptyBandFlagged(t *testing.T) {
	table := testutil.NewTable(t, []string{domain.ColumnAge},
		[]any{16}, []any{19}, []any{30},
	)

	report, err := AgeBands(table)
	require.NoError(t, err)

	assert.Equal(t, []string{"22 a 24 anos"}, report.EmptyBands)
	assert.True(t, report.Bands[2].NoRecords)
	assert.Equal(t, 0, report.Bands[2].Count)
	assert.Equal(t, "Até 17 anos", report.Bands[0].Label)
}

func TestAgeBands_Errors(t *testing.T) {
	_, err := AgeBands(testutil.NewTable(t, []string{domain.ColumnGender}))
	assert.ErrorIs(t, err, apierrors.ErrMissingColumn)

	_, err = AgeBands(testutil.NewTable(t, []string{domain.ColumnAge}, []any{"eighteen"}))
	assert.ErrorIs(t, err, apierrors.ErrInvalidColumn)
}
