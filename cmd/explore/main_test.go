package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentlens/internal/shared/testutil"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	actionLog := filepath.Join(t.TempDir(), "user_actions.log")
	t.Setenv("STUDENTLENS_LOGGING_ACTION_LOG_PATH", actionLog)
	t.Setenv("STUDENTLENS_LOGGING_LEVEL", "error")
	t.Setenv("STUDENTLENS_CHARTS_WIDTH", "320")
	t.Setenv("STUDENTLENS_CHARTS_HEIGHT", "240")
	return actionLog
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(t *testing.T, o options)
	}{
		{
			name: "defaults",
			args: []string{"-file", "alunos.csv"},
			check: func(t *testing.T, o options) {
				assert.Equal(t, "Final_Score", o.column)
				assert.True(t, o.detailed)
				assert.Empty(t, o.chartsDir)
			},
		},
		{
			name: "simple charts",
			args: []string{"-file", "alunos.csv", "-detailed=false", "-column", "Age"},
			check: func(t *testing.T, o options) {
				assert.False(t, o.detailed)
				assert.Equal(t, "Age", o.column)
			},
		},
		{name: "missing file", args: []string{}, wantErr: true},
		{
			name:  "version only",
			args:  []string{"-version"},
			check: func(t *testing.T, o options) { assert.True(t, o.version) },
		},
		{name: "unknown flag", args: []string{"-file", "a.csv", "-verbose"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseFlags(tt.args, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, o)
		})
	}
}

func TestRun(t *testing.T) {
	actionLog := setupEnv(t)
	dataset := testutil.WriteFixture(t, "alunos.csv", testutil.StudentsCSV)
	chartsDir := filepath.Join(t.TempDir(), "charts")
	exportPath := filepath.Join(t.TempDir(), "alunos_limpo.xlsx")

	out := &bytes.Buffer{}
	err := run(context.Background(), []string{
		"-name", "Ana Silva",
		"-file", dataset,
		"-charts", chartsDir,
		"-export", exportPath,
	}, out)
	require.NoError(t, err, out.String())

	text := out.String()
	assert.Contains(t, text, "Hello, Ana Silva!")
	assert.Contains(t, text, "Dataset alunos.csv: 5 rows")
	assert.Contains(t, text, "Statistics for Final_Score")
	assert.Contains(t, text, "46.67")
	assert.Contains(t, text, "Age bands")

	for _, kind := range []string{"age-bands", "gender", "distribution", "attendance-score"} {
		assert.FileExists(t, filepath.Join(chartsDir, kind+".png"))
	}

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))

	actions, err := os.ReadFile(actionLog)
	require.NoError(t, err)
	assert.Contains(t, string(actions), "Nome do usuário: Ana Silva")
	assert.Contains(t, string(actions), "Dados exportados:")
}

func TestRun_Version(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), []string{"-version"}, out))
	assert.True(t, strings.HasPrefix(out.String(), "StudentLens v"))
}

func TestRun_Errors(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{name: "unsupported extension", file: "alunos.txt", content: "a,b\n", errMsg: "unsupported file format"},
		{name: "missing column", file: "alunos.csv", content: "Gender,Age\nFemale,17\n", errMsg: "missing column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFixture(t, tt.file, tt.content)
			err := run(context.Background(), []string{"-file", path}, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	err := run(context.Background(), []string{"-file", filepath.Join(t.TempDir(), "nope.csv")}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
