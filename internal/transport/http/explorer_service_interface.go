package http

import (
	"context"
	"io"

	"studentlens/internal/charts"
	"studentlens/internal/services"
	"studentlens/internal/session"
	"studentlens/internal/validation"
	"studentlens/pkg/contracts/domain"
)

// ExplorerServiceInterface defines the explorer operations served over HTTP
type ExplorerServiceInterface interface {
	CreateSession(ctx context.Context) (*session.Session, error)
	Session(ctx context.Context, id string) (*session.Session, error)
	DeleteSession(ctx context.Context, id string) error

	SetName(ctx context.Context, id, name string) (validation.NameStatus, error)
	Upload(ctx context.Context, id string, upload *validation.Upload, r io.Reader) (*services.UploadResult, error)
	Table(ctx context.Context, id string, limit int) (domain.TablePreview, error)
	Clean(ctx context.Context, id string) (*domain.CleanResult, error)
	CleanedTable(ctx context.Context, id string, limit int) (domain.TablePreview, error)

	Columns(ctx context.Context, id string) ([]string, error)
	Statistics(ctx context.Context, id, column string) (*domain.StatisticsReport, error)
	AgeBands(ctx context.Context, id string) (*domain.AgeBandReport, error)
	Summary(ctx context.Context, id string) (*domain.DescribeTable, error)

	SetChartMode(ctx context.Context, id string, detailed bool) (*services.ChartMode, error)
	Charts(ctx context.Context, id string) (*services.ChartMode, error)
	RenderChart(ctx context.Context, id string, kind charts.Kind, column string) ([]byte, error)
	Export(ctx context.Context, id, format, column string) (*services.ExportFile, error)
}

var _ ExplorerServiceInterface = (*services.ExplorerService)(nil)
