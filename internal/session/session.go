package session

import (
	"time"

	"studentlens/internal/validation"
	"studentlens/pkg/contracts/domain"
)

// Session is the state of one explorer interaction: who is using it, what was
// uploaded and which stages have run.
type Session struct {
	ID         string
	Name       string
	NameStatus validation.NameStatus

	Filename   string
	Table      *domain.Table
	Normalized int

	Clean          *domain.CleanResult
	Cleaned        bool
	DetailedCharts bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasDataset reports whether a table was uploaded.
func (s *Session) HasDataset() bool {
	return s.Table != nil
}

// SetDataset replaces the uploaded table. Any previous clean result no longer
// applies and is discarded.
func (s *Session) SetDataset(filename string, t *domain.Table, normalized int) {
	s.Filename = filename
	s.Table = t
	s.Normalized = normalized
	s.Clean = nil
	s.Cleaned = false
}

// SetClean stores a clean result and raises the Cleaned flag.
func (s *Session) SetClean(r *domain.CleanResult) {
	s.Clean = r
	s.Cleaned = r != nil
}

// CleanedTable returns the cleaned table, or nil before cleaning.
func (s *Session) CleanedTable() *domain.Table {
	if !s.Cleaned || s.Clean == nil {
		return nil
	}
	return s.Clean.Table
}

// clone copies the session. Tables are shared: they are never mutated after
// being stored.
func (s *Session) clone() *Session {
	c := *s
	if s.Clean != nil {
		cr := *s.Clean
		c.Clean = &cr
	}
	return &c
}
