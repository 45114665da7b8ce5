package api

import (
	"time"

	"studentlens/pkg/contracts/domain"
)

// SessionResponse is the visible state of one exploration session.
type SessionResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name,omitempty"`
	NameStatus     string    `json:"name_status"`
	Filename       string    `json:"filename,omitempty"`
	Rows           int       `json:"rows"`
	CleanedRows    int       `json:"cleaned_rows"`
	Cleaned        bool      `json:"cleaned"`
	DetailedCharts bool      `json:"detailed_charts"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NameResponse reports the outcome of a name check.
type NameResponse struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// UploadResponse reports whether an upload was accepted and what it contained.
type UploadResponse struct {
	Accepted          bool     `json:"accepted"`
	Filename          string   `json:"filename,omitempty"`
	Rows              int      `json:"rows"`
	Columns           []string `json:"columns,omitempty"`
	NormalizedMissing int      `json:"normalized_missing"`
}

// CleanResponse is the clean report of a session.
type CleanResponse struct {
	domain.CleanResult
}

// ColumnsResponse lists the numeric columns offered for statistics.
type ColumnsResponse struct {
	Columns []string `json:"columns"`
}

// ChartModeResponse reports the current chart mode.
type ChartModeResponse struct {
	Detailed bool     `json:"detailed"`
	Charts   []string `json:"charts"`
}
