// Package api contains the HTTP contract of the StudentLens explorer.
// Version v1 represents the current stable API version.
package api

// NameRequest sets the user name of a session.
type NameRequest struct {
	Name string `json:"name" validate:"max=200"`
}

// UploadRequest describes the multipart part received by the upload endpoint.
type UploadRequest struct {
	Filename string `json:"filename" validate:"required,filename"`
	Size     int64  `json:"size" validate:"min=0"`
}

// StatisticsQuery selects the numeric column to summarise.
type StatisticsQuery struct {
	Column string `json:"column" query:"column" validate:"required,max=200"`
}

// ChartModeRequest toggles detailed charts.
type ChartModeRequest struct {
	Detailed *bool `json:"detailed" validate:"required"`
}

// ChartParams identifies one chart. Column is only used by the distribution chart.
type ChartParams struct {
	Kind   string `json:"kind" param:"kind" validate:"required,oneof=age-bands gender distribution attendance-score"`
	Column string `json:"column" query:"column" validate:"max=200"`
}

// ExportParams selects the download format of the cleaned table.
type ExportParams struct {
	Format string `json:"format" param:"format" validate:"required,oneof=csv xlsx"`
}
