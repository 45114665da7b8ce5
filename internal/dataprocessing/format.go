package dataprocessing

import (
	"io"
	"strings"

	apierrors "studentlens/internal/errors"
	"studentlens/pkg/contracts/domain"
)

// Format identifies how an uploaded dataset is encoded.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Parser decodes one dataset encoding into a Table.
type Parser interface {
	Parse(r io.Reader) (*domain.Table, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(r io.Reader) (*domain.Table, error)

// Parse calls f(r).
func (f ParserFunc) Parse(r io.Reader) (*domain.Table, error) { return f(r) }

type formatEntry struct {
	suffix string
	format Format
	parser Parser
}

// formats is checked in order; the first matching suffix wins.
var formats = []formatEntry{
	{suffix: ".csv", format: FormatCSV, parser: ParserFunc(ParseCSV)},
	{suffix: ".json", format: FormatJSON, parser: ParserFunc(ParseJSON)},
}

// FormatFromName picks the format from the filename suffix.
func FormatFromName(name string) (Format, error) {
	for _, e := range formats {
		if strings.HasSuffix(name, e.suffix) {
			return e.format, nil
		}
	}
	return FormatUnknown, apierrors.UnsupportedFormat(name)
}

// ParserFor returns the parser registered for f.
func ParserFor(f Format) (Parser, bool) {
	for _, e := range formats {
		if e.format == f {
			return e.parser, true
		}
	}
	return nil, false
}
