package dataprocessing

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"studentlens/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// naTokens are cell texts read as missing. "None" stays text here;
// NormalizeMissing rewrites it after load.
var naTokens = map[string]struct{}{
	"":     {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"#N/A": {},
	"<NA>": {},
	"NULL": {},
	"null": {},
}

// ParseCSV reads a header row followed by data rows. Every row must have as
// many fields as the header.
func ParseCSV(r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(skipBOM(r))

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := dedupeColumns(header)

	table := domain.NewTable(columns)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(domain.Row, len(columns))
		for i, cell := range record {
			row[columns[i]] = ParseCell(cell)
		}
		table.AppendRow(row)
	}

	return table, nil
}

// skipBOM drops a leading UTF-8 byte order mark.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// ParseCell infers the type of one text cell: missing, integer, float or string.
// Only finite numbers are numeric; "inf" and "Infinity" stay text.
func ParseCell(cell string) domain.Value {
	if _, ok := naTokens[cell]; ok {
		return domain.Missing()
	}
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return domain.Int(i)
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsInf(f, 0) && !strings.HasPrefix(strings.ToLower(cell), "0x") {
		return domain.Float(f)
	}
	return domain.String(cell)
}

// dedupeColumns renames repeated header names to name.1, name.2, ...
func dedupeColumns(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, name := range header {
		n, dup := seen[name]
		seen[name] = n + 1
		if !dup {
			out[i] = name
			continue
		}
		candidate := fmt.Sprintf("%s.%d", name, n)
		for {
			if _, taken := seen[candidate]; !taken {
				break
			}
			n++
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		seen[candidate] = 1
		out[i] = candidate
	}
	return out
}
