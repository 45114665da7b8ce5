package exporter

import (
	"fmt"
	"math"

	"studentlens/pkg/contracts/domain"
)

// formatFloat formats a statistic with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatValue renders a cell as text; missing is empty
func formatValue(v domain.Value) string {
	return v.String()
}

// cellValue returns the value handed to the spreadsheet. nil leaves the cell
// blank and infinities are written as text.
func cellValue(v domain.Value) interface{} {
	if f, ok := v.Number(); ok && math.IsInf(f, 0) {
		return v.String()
	}
	return v.Interface()
}
