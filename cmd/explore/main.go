package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"studentlens/internal/charts"
	"studentlens/internal/config"
	"studentlens/internal/infrastructure"
	"studentlens/internal/services"
	"studentlens/internal/session"
	"studentlens/internal/validation"
	"studentlens/pkg/contracts"
	"studentlens/pkg/contracts/domain"
)

type options struct {
	name      string
	file      string
	column    string
	detailed  bool
	chartsDir string
	export    string
	rows      int
	version   bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("explore", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.name, "name", "", "user name recorded in the action log")
	fs.StringVar(&opts.file, "file", "", "dataset to explore (.csv or .json)")
	fs.StringVar(&opts.column, "column", domain.ColumnFinalScore, "numeric column for statistics and the distribution chart")
	fs.BoolVar(&opts.detailed, "detailed", true, "render every chart instead of the simple set")
	fs.StringVar(&opts.chartsDir, "charts", "", "directory to write PNG charts into")
	fs.StringVar(&opts.export, "export", "", "write the cleaned table to this .csv or .xlsx file")
	fs.IntVar(&opts.rows, "rows", 0, "rows shown in previews (0 uses the configured default)")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.file == "" && !opts.version {
		return opts, fmt.Errorf("-file is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args, out)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintln(out, contracts.GetFullVersionString())
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, logCloser, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logCloser.Close()
	logger = infrastructure.WithComponent(logger, "explore")
	ctx = infrastructure.EnsureTraceID(ctx)

	actions, actionCloser, err := infrastructure.NewActionLog(cfg.Logging.ActionLogPath)
	if err != nil {
		return err
	}
	defer actionCloser.Close()

	logger.InfoContext(ctx, "Starting explorer",
		slog.String("version", contracts.Version),
		slog.String("file", opts.file))

	upload, err := validation.NewFileValidator(logger).ValidateDatasetFile(opts.file)
	if err != nil {
		return err
	}

	svc := services.NewExplorerService(session.NewMemoryStore(cfg.Session.TTL), services.ExplorerOptions{
		PreviewRows:    cfg.Upload.PreviewRows,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		DetailedCharts: opts.detailed,
		Charts: charts.Options{
			Width:  cfg.Charts.Width,
			Height: cfg.Charts.Height,
			Bins:   cfg.Charts.Bins,
		},
		ActionLog: actions,
	}, logger)

	e := &explorer{svc: svc, out: out, opts: opts}
	if err := e.explore(ctx, upload); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Explorer failed")
		return err
	}
	logger.InfoContext(ctx, "Explorer finished")
	return nil
}

type explorer struct {
	svc  *services.ExplorerService
	out  io.Writer
	opts options
	id   string
}

func (e *explorer) explore(ctx context.Context, upload *validation.Upload) error {
	sess, err := e.svc.CreateSession(ctx)
	if err != nil {
		return err
	}
	e.id = sess.ID
	defer e.svc.DeleteSession(ctx, e.id)

	if e.opts.name != "" {
		status, err := e.svc.SetName(ctx, e.id, e.opts.name)
		if err != nil {
			color.New(color.FgYellow).Fprintf(e.out, "Name %q is %s: %v\n", e.opts.name, status, err)
		} else {
			color.New(color.FgGreen).Fprintf(e.out, "Hello, %s!\n", e.opts.name)
		}
	}

	if err := e.load(ctx, upload); err != nil {
		return err
	}
	if err := e.clean(ctx); err != nil {
		return err
	}
	if err := e.statistics(ctx); err != nil {
		return err
	}
	if err := e.ageBands(ctx); err != nil {
		return err
	}
	if e.opts.chartsDir != "" {
		if err := e.charts(ctx); err != nil {
			return err
		}
	}
	if e.opts.export != "" {
		if err := e.exportTable(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (e *explorer) load(ctx context.Context, upload *validation.Upload) error {
	f, err := os.Open(e.opts.file)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := e.svc.Upload(ctx, e.id, upload, f)
	if err != nil {
		return err
	}
	e.heading("Dataset %s: %d rows, %d missing markers normalized", res.Filename, res.Rows, res.Normalized)

	preview, err := e.svc.Table(ctx, e.id, e.opts.rows)
	if err != nil {
		return err
	}
	e.renderPreview(preview)
	return nil
}

func (e *explorer) clean(ctx context.Context) error {
	res, err := e.svc.Clean(ctx, e.id)
	if err != nil {
		return err
	}
	e.heading("Cleaning")
	e.renderTable([]string{"Step", "Value"}, [][]string{
		{"Rows before", strconv.Itoa(res.RowsBefore)},
		{"Rows without parent education", strconv.Itoa(res.MissingParentEducation)},
		{"Rows after", strconv.Itoa(res.RowsAfter)},
		{"Attendance median", formatFloat(res.AttendanceMedian)},
		{"Attendance values filled", strconv.Itoa(res.AttendanceFilled)},
		{"Attendance sum", formatFloat(res.AttendanceSum)},
	})
	return nil
}

func (e *explorer) statistics(ctx context.Context) error {
	report, err := e.svc.Statistics(ctx, e.id, e.opts.column)
	if err != nil {
		return err
	}
	s := report.Statistics
	stddev := "-"
	if s.StdDev != nil {
		stddev = formatFloat(*s.StdDev)
	}

	e.heading("Statistics for %s", s.Column)
	e.renderTable([]string{"Count", "Mean", "Median", "Mode", "Std Dev"}, [][]string{{
		strconv.Itoa(s.Count), formatFloat(s.Mean), formatFloat(s.Median), formatFloat(s.Mode), stddev,
	}})

	e.heading("Gender")
	e.renderTable([]string{"Female", "Male", "Other"}, [][]string{{
		strconv.Itoa(report.Gender.Female), strconv.Itoa(report.Gender.Male), strconv.Itoa(report.Gender.Other),
	}})
	return nil
}

func (e *explorer) ageBands(ctx context.Context) error {
	report, err := e.svc.AgeBands(ctx, e.id)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(report.Bands))
	for _, b := range report.Bands {
		count := strconv.Itoa(b.Count)
		if b.NoRecords {
			count = "no records"
		}
		rows = append(rows, []string{b.Label, count})
	}
	e.heading("Age bands")
	e.renderTable([]string{"Band", "Students"}, rows)
	return nil
}

func (e *explorer) charts(ctx context.Context) error {
	if err := validation.NewFileValidator(nil).ValidateOutputDirectory(e.opts.chartsDir); err != nil {
		return err
	}
	mode, err := e.svc.Charts(ctx, e.id)
	if err != nil {
		return err
	}

	e.heading("Charts")
	for _, kind := range mode.Kinds {
		png, err := e.svc.RenderChart(ctx, e.id, kind, e.opts.column)
		if err != nil {
			return err
		}
		path := filepath.Join(e.opts.chartsDir, string(kind)+".png")
		if err := os.WriteFile(path, png, 0644); err != nil {
			return fmt.Errorf("failed to write chart %s: %w", kind, err)
		}
		fmt.Fprintf(e.out, "  %s\n", path)
	}
	return nil
}

func (e *explorer) exportTable(ctx context.Context) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(e.opts.export)), ".")
	file, err := e.svc.Export(ctx, e.id, format, e.opts.column)
	if err != nil {
		return err
	}
	if err := os.WriteFile(e.opts.export, file.Data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	color.New(color.FgGreen).Fprintf(e.out, "Exported cleaned table to %s\n", e.opts.export)
	return nil
}

func (e *explorer) heading(format string, args ...interface{}) {
	color.New(color.FgCyan, color.Bold).Fprintf(e.out, "\n"+format+"\n", args...)
}

func (e *explorer) renderPreview(p domain.TablePreview) {
	rows := make([][]string, 0, len(p.Rows))
	for _, r := range p.Rows {
		row := make([]string, len(r))
		for i, v := range r {
			row[i] = v.String()
		}
		rows = append(rows, row)
	}
	e.renderTable(p.Columns, rows)
	if len(p.Rows) < p.TotalRows {
		fmt.Fprintf(e.out, "(%d of %d rows)\n", len(p.Rows), p.TotalRows)
	}
}

func (e *explorer) renderTable(header []string, rows [][]string) {
	table := tablewriter.NewWriter(e.out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(rows)
	table.Render()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
