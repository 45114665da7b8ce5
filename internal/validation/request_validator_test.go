package validation

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "studentlens/internal/errors"
	api "studentlens/pkg/contracts/api/v1"
)

func boolPtr(b bool) *bool { return &b }

func TestRequestValidator_ValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      interface{}
		wantFields []string
		wantMsg    string
	}{
		{
			name:  "chart mode set",
			input: api.ChartModeRequest{Detailed: boolPtr(false)},
		},
		{
			name:       "chart mode missing",
			input:      api.ChartModeRequest{},
			wantFields: []string{"detailed"},
			wantMsg:    "detailed is required",
		},
		{
			name:  "known chart",
			input: api.ChartParams{Kind: "age-bands"},
		},
		{
			name:       "unknown chart",
			input:      api.ChartParams{Kind: "pie"},
			wantFields: []string{"kind"},
			wantMsg:    "kind must be one of: age-bands, gender, distribution, attendance-score",
		},
		{
			name:       "export format",
			input:      api.ExportParams{Format: "pdf"},
			wantFields: []string{"format"},
		},
		{
			name:       "statistics without column",
			input:      api.StatisticsQuery{},
			wantFields: []string{"column"},
		},
		{
			name:       "negative upload size",
			input:      api.UploadRequest{Filename: "students.csv", Size: -1},
			wantFields: []string{"size"},
			wantMsg:    "size must be at least 0",
		},
		{
			name:  "plain upload name",
			input: api.UploadRequest{Filename: "students.csv", Size: 10},
		},
		{
			name:  "upload name with double dot",
			input: api.UploadRequest{Filename: "notas..csv", Size: 10},
		},
		{
			name:       "parent directory as name",
			input:      api.UploadRequest{Filename: ".."},
			wantFields: []string{"filename"},
		},
		{
			name:       "upload name with path",
			input:      api.UploadRequest{Filename: "../etc/students.csv"},
			wantFields: []string{"filename"},
			wantMsg:    "filename must be a plain file name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rv := NewRequestValidator(nil)

			err := rv.ValidateStruct(tt.input)

			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)
			fields := make([]string, 0, len(details.Errors))
			for _, e := range details.Errors {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, details.Errors[0].Message)
			}
		})
	}
}
