package dataprocessing

import (
	"math"

	apierrors "studentlens/internal/errors"
	"studentlens/pkg/contracts/domain"
)

// Clean drops rows without Parent_Education_Level and fills missing
// Attendance (%) with the attendance median of the table as given, before
// any row is dropped. t is not modified.
func Clean(t *domain.Table) (*domain.CleanResult, error) {
	if err := RequireColumns(t, domain.ColumnParentEducationLevel, domain.ColumnAttendance); err != nil {
		return nil, err
	}

	attendance, err := numericValues(t, domain.ColumnAttendance)
	if err != nil {
		return nil, err
	}

	result := &domain.CleanResult{
		RowsBefore:             t.Len(),
		MissingParentEducation: CountMissing(t, domain.ColumnParentEducationLevel),
	}

	hasMedian := len(attendance) > 0
	var medianValue domain.Value
	if hasMedian {
		m := median(attendance)
		result.AttendanceMedian = round2(m)
		medianValue = domain.Float(m)
	}

	cleaned := domain.NewTable(t.Columns())
	for i := 0; i < t.Len(); i++ {
		if t.Value(i, domain.ColumnParentEducationLevel).IsMissing() {
			continue
		}

		row := t.Row(i).Clone()
		if row[domain.ColumnAttendance].IsMissing() {
			if !hasMedian {
				return nil, apierrors.EmptyStatisticsInput(domain.ColumnAttendance)
			}
			row[domain.ColumnAttendance] = medianValue
			result.AttendanceFilled++
		}
		cleaned.AppendRow(row)
	}

	for _, v := range cleaned.Column(domain.ColumnAttendance) {
		if f, ok := v.Number(); ok {
			result.AttendanceSum += f
		}
	}
	result.AttendanceSum = round2(result.AttendanceSum)

	result.Table = cleaned
	result.RowsAfter = cleaned.Len()
	result.RowsDropped = result.RowsBefore - result.RowsAfter
	return result, nil
}

// numericValues returns the non-missing values of a column as floats.
// A text or infinite cell makes the column invalid for numeric work.
func numericValues(t *domain.Table, column string) ([]float64, error) {
	values := make([]float64, 0, t.Len())
	for _, v := range t.Column(column) {
		if v.IsMissing() {
			continue
		}
		f, ok := v.Number()
		if !ok {
			return nil, apierrors.InvalidColumn(column, "contains non-numeric values")
		}
		if math.IsInf(f, 0) {
			return nil, apierrors.InvalidColumn(column, "contains infinite values")
		}
		values = append(values, f)
	}
	return values, nil
}
