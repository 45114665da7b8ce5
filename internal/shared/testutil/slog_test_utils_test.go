package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentlens/pkg/contracts/domain"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("statistics computed", slog.String("column", "Final_Score"))
		logger.Error("clean failed", slog.Int("rows", 5))

		assert.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("statistics"))
		assert.True(t, handler.ContainsAttr("column", "Final_Score"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("derived loggers share records and keep attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "cleaner")).Info("rows dropped")
		logger.WithGroup("upload").Info("accepted", slog.String("file", "a.csv"))

		require.Equal(t, 2, handler.Count())
		AssertLogAttr(t, handler, "component", "cleaner")
		AssertLogAttr(t, handler, "upload.file", "a.csv")
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("message 1")
		logger.Info("message 2")
		require.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("upload accepted", slog.String("component", "explorer"))
		logger.Warn("name invalid", slog.Int("length", 2))

		AssertLogContains(t, handler, slog.LevelInfo, "upload")
		AssertLogAttr(t, handler, "component", "explorer")
		AssertNoErrors(t, handler)
	})

	t.Run("thread safety", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Info("concurrent log", slog.Int("goroutine", n))
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, handler.Count())
	})
}

func TestNewTable(t *testing.T) {
	table := NewTable(t, []string{"Age", "Gender"},
		[]any{17, "Female"},
		[]any{nil, "Male"},
		[]any{21.5, nil},
	)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, domain.KindInt, table.Value(0, "Age").Kind())
	assert.True(t, table.Value(1, "Age").IsMissing())
	assert.Equal(t, domain.KindFloat, table.Value(2, "Age").Kind())
	assert.True(t, table.Value(2, "Gender").IsMissing())
}

func TestWriteFixture(t *testing.T) {
	path := WriteFixture(t, "students.csv", StudentsCSV)
	assert.FileExists(t, path)
}
