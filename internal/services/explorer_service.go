package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"studentlens/internal/charts"
	"studentlens/internal/dataprocessing"
	apierrors "studentlens/internal/errors"
	"studentlens/internal/exporter"
	"studentlens/internal/infrastructure"
	"studentlens/internal/session"
	"studentlens/internal/validation"
	"studentlens/pkg/contracts/domain"
)

// Export formats of the cleaned table.
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

// Content types of exported files.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExplorerOptions configures an ExplorerService. Zero fields take defaults:
// no-op tracer, no metrics, a discarding action log and default chart sizes.
type ExplorerOptions struct {
	PreviewRows    int
	MaxUploadBytes int64
	DetailedCharts bool
	Charts         charts.Options

	Tracer    trace.Tracer
	Metrics   *infrastructure.PipelineMetrics
	ActionLog *slog.Logger
}

// ExplorerService runs one explorer interaction at a time against a stored session.
type ExplorerService struct {
	store    session.Store
	renderer *charts.Renderer
	csv      *exporter.CSVWriter
	excel    *exporter.ExcelWriter

	previewRows    int
	maxUploadBytes int64
	detailed       bool

	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
	actions *slog.Logger
	logger  *slog.Logger
}

// UploadResult reports the outcome of an upload.
type UploadResult struct {
	Accepted   bool
	Filename   string
	Rows       int
	Columns    []string
	Normalized int
}

// ChartMode is the chart mode of a session and the charts it offers.
type ChartMode struct {
	Detailed bool
	Kinds    []charts.Kind
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewExplorerService creates the explorer service
func NewExplorerService(store session.Store, opts ExplorerOptions, logger *slog.Logger) *ExplorerService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName)
	}
	if opts.ActionLog == nil {
		opts.ActionLog = infrastructure.DiscardActionLog()
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = 20
	}

	return &ExplorerService{
		store:          store,
		renderer:       charts.NewRenderer(opts.Charts, logger),
		csv:            exporter.NewCSVWriter(logger),
		excel:          exporter.NewExcelWriter(logger),
		previewRows:    opts.PreviewRows,
		maxUploadBytes: opts.MaxUploadBytes,
		detailed:       opts.DetailedCharts,
		tracer:         opts.Tracer,
		metrics:        opts.Metrics,
		actions:        opts.ActionLog,
		logger:         logger.With(slog.String("component", "explorer_service")),
	}
}

// CreateSession starts an empty session in the configured chart mode
func (s *ExplorerService) CreateSession(ctx context.Context) (*session.Session, error) {
	sess, err := s.store.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.detailed {
		sess.DetailedCharts = true
		if err := s.store.Update(ctx, sess); err != nil {
			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "session created", slog.String("session_id", sess.ID))
	return sess, nil
}

// Session returns a copy of the session
func (s *ExplorerService) Session(ctx context.Context, id string) (*session.Session, error) {
	return s.store.Get(ctx, id)
}

// DeleteSession forgets a session
func (s *ExplorerService) DeleteSession(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// SetName validates and records the user name. An invalid name is stored with
// its status so the session reflects the last attempt.
func (s *ExplorerService) SetName(ctx context.Context, id, name string) (validation.NameStatus, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return validation.NamePending, err
	}

	status, verr := validation.ValidateName(name)
	sess.Name = name
	sess.NameStatus = status
	if err := s.store.Update(ctx, sess); err != nil {
		return status, err
	}

	if verr != nil {
		s.logger.InfoContext(ctx, "invalid user name", slog.String("session_id", id))
		return status, verr
	}
	if status == validation.NameValid {
		s.actions.InfoContext(ctx, fmt.Sprintf("Nome do usuário: %s", name))
	}
	return status, nil
}

// Upload validates and loads a dataset into the session. A nil upload is not
// an error: nothing was selected. A failed upload leaves the session as it was.
func (s *ExplorerService) Upload(ctx context.Context, id string, upload *validation.Upload, r io.Reader) (result *UploadResult, err error) {
	ctx, span, start := s.startStage(ctx, "upload", id)
	rows := 0
	defer func() { s.endStage(ctx, span, "upload", start, rows, err) }()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := validation.ValidateUpload(upload)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &UploadResult{Accepted: false}, nil
	}

	if s.maxUploadBytes > 0 && upload.Size > s.maxUploadBytes {
		return nil, apierrors.ErrPayloadTooLarge
	}
	data, err := s.readUpload(r)
	if err != nil {
		return nil, err
	}

	loaded, err := dataprocessing.Load(bytes.NewReader(data), upload.Filename)
	if err != nil {
		return nil, err
	}
	if err := dataprocessing.RequireColumns(loaded.Table, domain.RequiredColumns...); err != nil {
		return nil, err
	}

	sess.SetDataset(upload.Filename, loaded.Table, loaded.Normalized)
	if err := s.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	rows = loaded.Table.Len()

	span.SetAttributes(
		attribute.String("file.name", upload.Filename),
		attribute.String("file.format", loaded.Format.String()),
		attribute.Int("rows", rows),
	)
	s.metrics.RecordUpload(ctx, loaded.Format.String(), int64(len(data)))
	s.actions.InfoContext(ctx, fmt.Sprintf("Arquivo carregado: %s (%d linhas)", upload.Filename, rows))
	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("session_id", id),
		slog.String("file", upload.Filename),
		slog.Int("rows", rows),
		slog.Int("normalized_missing", loaded.Normalized))

	return &UploadResult{
		Accepted:   true,
		Filename:   upload.Filename,
		Rows:       rows,
		Columns:    loaded.Table.Columns(),
		Normalized: loaded.Normalized,
	}, nil
}

// Table previews the uploaded table
func (s *ExplorerService) Table(ctx context.Context, id string, limit int) (domain.TablePreview, error) {
	sess, err := s.withDataset(ctx, id, "preview")
	if err != nil {
		return domain.TablePreview{}, err
	}
	return sess.Table.Preview(s.limit(limit)), nil
}

// Clean runs the cleaner on the uploaded table. Repeating it recomputes the
// result from the uploaded table.
func (s *ExplorerService) Clean(ctx context.Context, id string) (result *domain.CleanResult, err error) {
	ctx, span, start := s.startStage(ctx, "clean", id)
	rows := 0
	defer func() { s.endStage(ctx, span, "clean", start, rows, err) }()

	sess, err := s.withDataset(ctx, id, "clean")
	if err != nil {
		return nil, err
	}

	result, err = dataprocessing.Clean(sess.Table)
	if err != nil {
		return nil, err
	}
	rows = result.RowsBefore

	sess.SetClean(result)
	if err := s.store.Update(ctx, sess); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("rows.dropped", result.RowsDropped),
		attribute.Int("attendance.filled", result.AttendanceFilled),
	)
	s.actions.InfoContext(ctx, fmt.Sprintf("Dados limpos: %d linhas removidas, %d valores de frequência preenchidos",
		result.RowsDropped, result.AttendanceFilled))
	s.logger.InfoContext(ctx, "dataset cleaned",
		slog.String("session_id", id),
		slog.Int("rows_before", result.RowsBefore),
		slog.Int("rows_after", result.RowsAfter),
		slog.Float64("attendance_median", result.AttendanceMedian))

	return result, nil
}

// CleanedTable previews the cleaned table
func (s *ExplorerService) CleanedTable(ctx context.Context, id string, limit int) (domain.TablePreview, error) {
	sess, err := s.withCleaned(ctx, id, "preview cleaned data")
	if err != nil {
		return domain.TablePreview{}, err
	}
	return sess.CleanedTable().Preview(s.limit(limit)), nil
}

// Columns lists the numeric columns offered for statistics
func (s *ExplorerService) Columns(ctx context.Context, id string) ([]string, error) {
	sess, err := s.withDataset(ctx, id, "list columns")
	if err != nil {
		return nil, err
	}
	table := sess.Table
	if cleaned := sess.CleanedTable(); cleaned != nil {
		table = cleaned
	}
	return dataprocessing.NumericColumns(table), nil
}

// Statistics summarises column of the cleaned table alongside the gender
// counts and the pre-clean count of missing parent education.
func (s *ExplorerService) Statistics(ctx context.Context, id, column string) (report *domain.StatisticsReport, err error) {
	ctx, span, start := s.startStage(ctx, "statistics", id)
	rows := 0
	defer func() { s.endStage(ctx, span, "statistics", start, rows, err) }()
	span.SetAttributes(attribute.String("column", column))

	sess, err := s.withCleaned(ctx, id, "compute statistics")
	if err != nil {
		return nil, err
	}
	table := sess.CleanedTable()

	stats, err := dataprocessing.ComputeStatistics(table, column)
	if err != nil {
		return nil, err
	}
	gender, err := dataprocessing.GenderCounts(table)
	if err != nil {
		return nil, err
	}
	rows = table.Len()

	s.actions.InfoContext(ctx, fmt.Sprintf("Estatísticas calculadas: %s", column))
	return &domain.StatisticsReport{
		Statistics:             *stats,
		Gender:                 gender,
		MissingParentEducation: sess.Clean.MissingParentEducation,
	}, nil
}

// AgeBands buckets the cleaned table by age
func (s *ExplorerService) AgeBands(ctx context.Context, id string) (*domain.AgeBandReport, error) {
	sess, err := s.withCleaned(ctx, id, "compute age bands")
	if err != nil {
		return nil, err
	}
	return dataprocessing.AgeBands(sess.CleanedTable())
}

// Summary describes every numeric column of the cleaned table
func (s *ExplorerService) Summary(ctx context.Context, id string) (*domain.DescribeTable, error) {
	sess, err := s.withCleaned(ctx, id, "summarise")
	if err != nil {
		return nil, err
	}
	return dataprocessing.Describe(sess.CleanedTable())
}

// SetChartMode switches between simple and detailed charts
func (s *ExplorerService) SetChartMode(ctx context.Context, id string, detailed bool) (*ChartMode, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.DetailedCharts = detailed
	if err := s.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	return &ChartMode{Detailed: detailed, Kinds: charts.KindsFor(detailed)}, nil
}

// Charts reports the session's chart mode
func (s *ExplorerService) Charts(ctx context.Context, id string) (*ChartMode, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ChartMode{Detailed: sess.DetailedCharts, Kinds: charts.KindsFor(sess.DetailedCharts)}, nil
}

// RenderChart draws one chart of the cleaned table as PNG. column selects the
// distribution column and defaults to the final score.
func (s *ExplorerService) RenderChart(ctx context.Context, id string, kind charts.Kind, column string) (png []byte, err error) {
	ctx, span, start := s.startStage(ctx, "chart", id)
	rows := 0
	defer func() { s.endStage(ctx, span, "chart", start, rows, err) }()
	span.SetAttributes(attribute.String("chart", string(kind)))

	sess, err := s.withCleaned(ctx, id, "render charts")
	if err != nil {
		return nil, err
	}
	if !charts.Available(kind, sess.DetailedCharts) {
		return nil, apierrors.UnknownChart(string(kind))
	}
	if column == "" {
		column = domain.ColumnFinalScore
	}

	var buf bytes.Buffer
	table := sess.CleanedTable()
	if err := s.renderer.Render(&buf, kind, table, column); err != nil {
		return nil, err
	}
	rows = table.Len()

	s.metrics.RecordChart(ctx, string(kind))
	s.actions.InfoContext(ctx, fmt.Sprintf("Gráfico gerado: %s", kind))
	return buf.Bytes(), nil
}

// Export renders the cleaned table for download. The workbook format adds the
// statistics of column (when given) and the describe summary.
func (s *ExplorerService) Export(ctx context.Context, id, format, column string) (file *ExportFile, err error) {
	ctx, span, start := s.startStage(ctx, "export", id)
	rows := 0
	defer func() { s.endStage(ctx, span, "export", start, rows, err) }()
	span.SetAttributes(attribute.String("format", format))

	sess, err := s.withCleaned(ctx, id, "export")
	if err != nil {
		return nil, err
	}
	table := sess.CleanedTable()
	base := exportBaseName(sess.Filename)

	var buf bytes.Buffer
	switch format {
	case ExportCSV:
		if err := s.csv.WriteTable(&buf, table, true); err != nil {
			return nil, err
		}
		file = &ExportFile{Filename: base + ".csv", ContentType: ContentTypeCSV}

	case ExportXLSX:
		wb := exporter.Workbook{Table: table}
		if column != "" {
			if wb.Statistics, err = dataprocessing.ComputeStatistics(table, column); err != nil {
				return nil, err
			}
		}
		if wb.Summary, err = dataprocessing.Describe(table); err != nil {
			return nil, err
		}
		if err := s.excel.Write(&buf, wb); err != nil {
			return nil, err
		}
		file = &ExportFile{Filename: base + ".xlsx", ContentType: ContentTypeXLSX}

	default:
		return nil, apierrors.ErrValidation("format", fmt.Sprintf("format must be one of: %s, %s", ExportCSV, ExportXLSX))
	}

	rows = table.Len()
	file.Data = buf.Bytes()
	s.actions.InfoContext(ctx, fmt.Sprintf("Dados exportados: %s", file.Filename))
	return file, nil
}

func (s *ExplorerService) withDataset(ctx context.Context, id, action string) (*session.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.HasDataset() {
		return nil, apierrors.NoDataset(action)
	}
	return sess, nil
}

func (s *ExplorerService) withCleaned(ctx context.Context, id, action string) (*session.Session, error) {
	sess, err := s.withDataset(ctx, id, action)
	if err != nil {
		return nil, err
	}
	if sess.CleanedTable() == nil {
		return nil, apierrors.NotCleaned(action)
	}
	return sess, nil
}

func (s *ExplorerService) limit(limit int) int {
	if limit <= 0 {
		return s.previewRows
	}
	return limit
}

func (s *ExplorerService) startStage(ctx context.Context, stage, id string) (context.Context, trace.Span, time.Time) {
	ctx, span := s.tracer.Start(ctx, "explorer."+stage,
		trace.WithAttributes(attribute.String("session.id", id)))
	return ctx, span, time.Now()
}

func (s *ExplorerService) endStage(ctx context.Context, span trace.Span, stage string, start time.Time, rows int, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "stage failed",
			slog.String("stage", stage),
			slog.String("error", err.Error()))
	}
	s.metrics.RecordStage(ctx, stage, time.Since(start), rows, err)
	span.End()
}

// readUpload reads the whole upload, failing once it exceeds the size cap
func (s *ExplorerService) readUpload(r io.Reader) ([]byte, error) {
	if s.maxUploadBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, apierrors.ErrPayloadTooLarge
	}
	return data, nil
}

// exportBaseName derives the download name from the uploaded file name
func exportBaseName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." {
		base = "dados"
	}
	return base + "_limpo"
}
