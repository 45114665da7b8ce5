package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with cause",
			err:  NewAppError(ErrTypeData, "column \"Age\" not found", ErrMissingColumn),
			want: "[DATA] column \"Age\" not found: missing column",
		},
		{
			name: "without cause",
			err:  NewAppError(ErrTypeSession, "session expired", nil),
			want: "[SESSION] session expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"missing column", MissingColumn("Age"), ErrMissingColumn},
		{"invalid column", InvalidColumn("Gender", "is not numeric"), ErrInvalidColumn},
		{"empty input", EmptyStatisticsInput("Final_Score"), ErrEmptyStatisticsInput},
		{"unsupported format", UnsupportedFormat("data.txt"), ErrUnsupportedFormat},
		{"invalid name", InvalidName("A1"), ErrInvalidName},
		{"malformed dataset", MalformedDataset("a.csv", errors.New("wrong number of fields")), ErrMalformedDataset},
		{"unknown chart", UnknownChart("pie"), ErrUnknownChart},
		{"session not found", SessionNotFound("abc"), ErrSessionNotFound},
		{"no dataset", NoDataset("clean"), ErrNoDataset},
		{"not cleaned", NotCleaned("statistics"), ErrNotCleaned},
		{"wrapped twice", fmt.Errorf("clean: %w", MissingColumn("Attendance (%)")), ErrMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.target))

			var appErr *AppError
			require.True(t, errors.As(tt.err, &appErr))
			assert.NotEmpty(t, appErr.Context)
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeSession, Message: "expired"}
	err.WithContext("session_id", "abc").WithContext("ttl", "30m")

	assert.Equal(t, "abc", err.Context["session_id"])
	assert.Equal(t, "30m", err.Context["ttl"])
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidName, ErrUnsupportedFormat, ErrMissingColumn, ErrInvalidColumn,
		ErrEmptyStatisticsInput, ErrMalformedDataset, ErrSessionNotFound, ErrNoDataset, ErrNotCleaned, ErrUnknownChart,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}
