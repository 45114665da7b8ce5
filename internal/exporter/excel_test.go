package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"studentlens/internal/shared/testutil"
	"studentlens/pkg/contracts/domain"
)

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExcelWriter_Write(t *testing.T) {
	table := testutil.NewTable(t, []string{"Gender", "Final_Score"},
		[]any{"Female", 10},
		[]any{"Male", nil},
		[]any{"Other", 20.5},
	)
	sd := 7.42
	stats := &domain.ColumnStatistics{
		Column: "Final_Score", Count: 2, Mean: 15.25, Median: 15.25, Mode: 10, StdDev: &sd,
	}
	summary := &domain.DescribeTable{
		Header: []string{"statistic", "Final_Score"},
		Rows:   [][]string{{"count", "2"}, {"mean", "15.25"}},
	}

	var buf bytes.Buffer
	err := NewExcelWriter(nil).Write(&buf, Workbook{Table: table, Statistics: stats, Summary: summary})
	require.NoError(t, err)

	f := openWorkbook(t, &buf)
	assert.Equal(t, []string{DataSheet, StatisticsSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(DataSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Gender", "Final_Score"}, rows[0])
	assert.Equal(t, []string{"Female", "10"}, rows[1])
	assert.Equal(t, []string{"Male"}, rows[2])
	assert.Equal(t, []string{"Other", "20.5"}, rows[3])

	statRows, err := f.GetRows(StatisticsSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Média", "15.25"}, statRows[2])
	assert.Equal(t, []string{"Desvio padrão", "7.42"}, statRows[5])

	summaryRows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"statistic", "Final_Score"}, {"count", "2"}, {"mean", "15.25"}}, summaryRows)
}

func TestExcelWriter_TableOnly(t *testing.T) {
	table := testutil.NewTable(t, []string{"Age"}, []any{17})

	var buf bytes.Buffer
	require.NoError(t, NewExcelWriter(nil).Write(&buf, Workbook{Table: table}))

	f := openWorkbook(t, &buf)
	assert.Equal(t, []string{DataSheet}, f.GetSheetList())
}

func TestExcelWriter_SingleValueStdDev(t *testing.T) {
	table := testutil.NewTable(t, []string{"Age"}, []any{17})
	stats := &domain.ColumnStatistics{Column: "Age", Count: 1, Mean: 17, Median: 17, Mode: 17}

	var buf bytes.Buffer
	require.NoError(t, NewExcelWriter(nil).Write(&buf, Workbook{Table: table, Statistics: stats}))

	f := openWorkbook(t, &buf)
	value, err := f.GetCellValue(StatisticsSheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "-", value)
}

func TestExcelWriter_NoTable(t *testing.T) {
	var buf bytes.Buffer
	err := NewExcelWriter(nil).Write(&buf, Workbook{})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
