package dataprocessing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"studentlens/pkg/contracts/domain"
)

var errNestedValue = errors.New("nested arrays and objects are not supported as cell values")

// ParseJSON accepts either an array of record objects or an object of
// columns, where each column is an array or an object keyed by row label.
func ParseJSON(r io.Reader) (*domain.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty document")
	}
	if err != nil {
		return nil, err
	}

	var table *domain.Table
	switch tok {
	case json.Delim('['):
		table, err = parseRecords(dec)
	case json.Delim('{'):
		table, err = parseColumns(dec)
	default:
		return nil, fmt.Errorf("expected array or object, got %v", tok)
	}
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return table, nil
}

// parseRecords reads [{"col": v, ...}, ...] after the opening bracket.
func parseRecords(dec *json.Decoder) (*domain.Table, error) {
	var columns []string
	known := make(map[string]bool)
	var rows []domain.Row

	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("record %d: %w", len(rows), err)
		}
		row := make(domain.Row)
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", len(rows), err)
			}
			v, err := readScalar(dec)
			if err != nil {
				return nil, fmt.Errorf("record %d, column %q: %w", len(rows), key, err)
			}
			if !known[key] {
				known[key] = true
				columns = append(columns, key)
			}
			row[key] = v
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	table := domain.NewTable(columns)
	for _, row := range rows {
		table.AppendRow(row)
	}
	return table, nil
}

// parseColumns reads {"col": [..] | {"label": v}, ...} after the opening brace.
// Row order follows the first appearance of each row label.
func parseColumns(dec *json.Decoder) (*domain.Table, error) {
	var columns []string
	var labels []string
	position := make(map[string]int)
	cells := make(map[string]map[int]domain.Value)

	rowFor := func(label string) int {
		if i, ok := position[label]; ok {
			return i
		}
		position[label] = len(labels)
		labels = append(labels, label)
		return len(labels) - 1
	}

	for dec.More() {
		col, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if _, ok := cells[col]; !ok {
			columns = append(columns, col)
			cells[col] = make(map[int]domain.Value)
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		switch tok {
		case json.Delim('['):
			for i := 0; dec.More(); i++ {
				v, err := readScalar(dec)
				if err != nil {
					return nil, fmt.Errorf("column %q, row %d: %w", col, i, err)
				}
				cells[col][rowFor(fmt.Sprint(i))] = v
			}
			if err := expectDelim(dec, ']'); err != nil {
				return nil, err
			}
		case json.Delim('{'):
			for dec.More() {
				label, err := readKey(dec)
				if err != nil {
					return nil, fmt.Errorf("column %q: %w", col, err)
				}
				v, err := readScalar(dec)
				if err != nil {
					return nil, fmt.Errorf("column %q, row %q: %w", col, label, err)
				}
				cells[col][rowFor(label)] = v
			}
			if err := expectDelim(dec, '}'); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("column %q: expected array or object of values", col)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	table := domain.NewTable(columns)
	for i := range labels {
		row := make(domain.Row, len(columns))
		for _, col := range columns {
			row[col] = cells[col][i]
		}
		table.AppendRow(row)
	}
	return table, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func readScalar(dec *json.Decoder) (domain.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return domain.Missing(), err
	}

	switch v := tok.(type) {
	case nil:
		return domain.Missing(), nil
	case string:
		return domain.String(v), nil
	case bool:
		if v {
			return domain.String("true"), nil
		}
		return domain.String("false"), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return domain.Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return domain.Missing(), fmt.Errorf("invalid number %q: %w", v, err)
		}
		return domain.Float(f), nil
	case json.Delim:
		return domain.Missing(), errNestedValue
	default:
		return domain.Missing(), fmt.Errorf("unexpected token %v", tok)
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
