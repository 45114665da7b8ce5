package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "studentlens/internal/errors"
	"studentlens/internal/shared/testutil"
	"studentlens/pkg/contracts/domain"
)

func TestComputeStatistics(t *testing.T) {
	tests := []struct {
		name       string
		scores     []any
		wantCount  int
		wantMean   float64
		wantMedian float64
		wantMode   float64
		wantStd    *float64
	}{
		{
			name:       "final scores",
			scores:     []any{10, 20, 20, 30, 100},
			wantCount:  5,
			wantMean:   36,
			wantMedian: 20,
			wantMode:   20,
			wantStd:    ptr(36.47),
		},
		{
			name:       "even count with missing cells",
			scores:     []any{4, nil, 1, 3, 2, nil},
			wantCount:  4,
			wantMean:   2.5,
			wantMedian: 2.5,
			wantMode:   1,
			wantStd:    ptr(1.29),
		},
		{
			name:       "mode tie goes to smallest",
			scores:     []any{7.5, 3, 7.5, 3, 9},
			wantCount:  5,
			wantMean:   6,
			wantMedian: 7.5,
			wantMode:   3,
			wantStd:    ptr(2.81),
		},
		{
			name:       "single value",
			scores:     []any{42},
			wantCount:  1,
			wantMean:   42,
			wantMedian: 42,
			wantMode:   42,
			wantStd:    nil,
		},
		{
			name:       "rounding",
			scores:     []any{1, 2, 2},
			wantCount:  3,
			wantMean:   1.67,
			wantMedian: 2,
			wantMode:   2,
			wantStd:    ptr(0.58),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := testutil.ScoreTable(t, tt.scores...)

			stats, err := ComputeStatistics(table, domain.ColumnFinalScore)
			require.NoError(t, err)

			assert.Equal(t, domain.ColumnFinalScore, stats.Column)
			assert.Equal(t, tt.wantCount, stats.Count)
			assert.Equal(t, tt.wantMean, stats.Mean)
			assert.Equal(t, tt.wantMedian, stats.Median)
			assert.Equal(t, tt.wantMode, stats.Mode)
			if tt.wantStd == nil {
				assert.Nil(t, stats.StdDev)
			} else {
				require.NotNil(t, stats.StdDev)
				assert.Equal(t, *tt.wantStd, *stats.StdDev)
			}
		})
	}
}

func TestComputeStatistics_Errors(t *testing.T) {
	tests := []struct {
		name    string
		table   *domain.Table
		column  string
		wantErr error
	}{
		{
			name:    "absent column",
			table:   testutil.ScoreTable(t, 1, 2),
			column:  domain.ColumnAge,
			wantErr: apierrors.ErrMissingColumn,
		},
		{
			name:    "text column",
			table:   testutil.ScoreTable(t, 1, "A+"),
			column:  domain.ColumnFinalScore,
			wantErr: apierrors.ErrInvalidColumn,
		},
		{
			name:    "infinite value",
			table:   testutil.ScoreTable(t, 10, math.Inf(-1)),
			column:  domain.ColumnFinalScore,
			wantErr: apierrors.ErrInvalidColumn,
		},
		{
			name:    "all missing",
			table:   testutil.ScoreTable(t, nil, nil),
			column:  domain.ColumnFinalScore,
			wantErr: apierrors.ErrEmptyStatisticsInput,
		},
		{
			name:    "no rows",
			table:   testutil.ScoreTable(t),
			column:  domain.ColumnFinalScore,
			wantErr: apierrors.ErrEmptyStatisticsInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeStatistics(tt.table, tt.column)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenderCounts(t *testing.T) {
	table := testutil.NewTable(t, []string{domain.ColumnGender},
		[]any{"Female"}, []any{"Male"}, []any{"Male"},
		[]any{"female"}, []any{"MALE"}, []any{nil}, []any{"Non-binary"},
	)

	counts, err := GenderCounts(table)
	require.NoError(t, err)

	assert.Equal(t, domain.GenderCounts{Female: 1, Male: 2, Other: 4}, counts)
}

func TestGenderCounts_MissingColumn(t *testing.T) {
	_, err := GenderCounts(testutil.ScoreTable(t, 1))
	assert.ErrorIs(t, err, apierrors.ErrMissingColumn)
}

func TestCountMissing(t *testing.T) {
	table := testutil.NewTable(t, []string{domain.ColumnParentEducationLevel},
		[]any{"HS"}, []any{nil}, []any{nil},
	)

	assert.Equal(t, 2, CountMissing(table, domain.ColumnParentEducationLevel))
	assert.Equal(t, 0, CountMissing(table, "Unknown"))
}

func TestNumericColumns(t *testing.T) {
	table := testutil.NewTable(t, []string{"Gender", "Age", "Empty", "Score"},
		[]any{"Female", 17, nil, 9.5},
		[]any{"Male", nil, nil, 7},
	)

	assert.Equal(t, []string{"Age", "Empty", "Score"}, NumericColumns(table))
}

func ptr(f float64) *float64 { return &f }

func TestPairedValues(t *testing.T) {
	table := testutil.NewTable(t, []string{domain.ColumnAttendance, domain.ColumnFinalScore},
		[]any{90, 80.5},
		[]any{nil, 70},
		[]any{60, nil},
		[]any{75.5, 65},
	)

	xs, ys, err := PairedValues(table, domain.ColumnAttendance, domain.ColumnFinalScore)
	require.NoError(t, err)
	assert.Equal(t, []float64{90, 75.5}, xs)
	assert.Equal(t, []float64{80.5, 65}, ys)

	_, _, err = PairedValues(table, domain.ColumnAttendance, domain.ColumnAge)
	assert.ErrorIs(t, err, apierrors.ErrMissingColumn)
}

func TestNumericValues(t *testing.T) {
	values, err := NumericValues(testutil.ScoreTable(t, 10, nil, 20.5), domain.ColumnFinalScore)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20.5}, values)

	_, err = NumericValues(testutil.ScoreTable(t, 10), domain.ColumnAge)
	assert.ErrorIs(t, err, apierrors.ErrMissingColumn)
}
