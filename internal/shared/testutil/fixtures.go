package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"studentlens/pkg/contracts/domain"
)

// StudentsCSV is a small dataset with every required column. Rows 2 and 3
// have no parent education; row 4 has no attendance. Before any row is
// dropped the attendance median is 82.5.
const StudentsCSV = `Gender,Parent_Education_Level,Attendance (%),Age,Sleep_Hours_per_Night,Final_Score,Midterm_Score
Female,Bachelor's,90.5,17,7.5,10,55
Male,None,85,18,6,20,60
Female,,80,24,8,20,70
Male,Master's,None,25,5.5,30,65
Other,High School,60,22,7,100,90
`

// StudentsJSONRecords holds the first two StudentsCSV rows in records orientation.
const StudentsJSONRecords = `[
  {"Gender":"Female","Parent_Education_Level":"Bachelor's","Attendance (%)":90.5,"Age":17,"Sleep_Hours_per_Night":7.5,"Final_Score":10,"Midterm_Score":55},
  {"Gender":"Male","Parent_Education_Level":"None","Attendance (%)":85,"Age":18,"Sleep_Hours_per_Night":6,"Final_Score":20,"Midterm_Score":60}
]`

// StudentsJSONColumns holds the same two rows in columns orientation.
const StudentsJSONColumns = `{
  "Gender":{"0":"Female","1":"Male"},
  "Parent_Education_Level":{"0":"Bachelor's","1":"None"},
  "Attendance (%)":{"0":90.5,"1":85},
  "Age":{"0":17,"1":18},
  "Sleep_Hours_per_Night":{"0":7.5,"1":6},
  "Final_Score":{"0":10,"1":20},
  "Midterm_Score":{"0":55,"1":60}
}`

// WriteFixture writes content to name inside a test temp dir and returns its path.
func WriteFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// NewTable builds a table from columns and rows of plain Go values.
// nil becomes missing; int, float64 and string map to their Value kinds.
func NewTable(t *testing.T, columns []string, rows ...[]any) *domain.Table {
	t.Helper()
	table := domain.NewTable(columns)
	for _, raw := range rows {
		require.Len(t, raw, len(columns), "row width")
		row := make(domain.Row, len(columns))
		for i, col := range columns {
			row[col] = ValueOf(t, raw[i])
		}
		table.AppendRow(row)
	}
	return table
}

// ValueOf converts a plain Go value into a domain.Value.
func ValueOf(t *testing.T, v any) domain.Value {
	t.Helper()
	switch x := v.(type) {
	case nil:
		return domain.Missing()
	case int:
		return domain.Int(int64(x))
	case int64:
		return domain.Int(x)
	case float64:
		return domain.Float(x)
	case string:
		return domain.String(x)
	default:
		require.FailNowf(t, "unsupported fixture value", "%T", v)
		return domain.Missing()
	}
}

// ScoreTable is a table with a single Final_Score column.
func ScoreTable(t *testing.T, scores ...any) *domain.Table {
	t.Helper()
	rows := make([][]any, len(scores))
	for i, s := range scores {
		rows[i] = []any{s}
	}
	return NewTable(t, []string{domain.ColumnFinalScore}, rows...)
}
