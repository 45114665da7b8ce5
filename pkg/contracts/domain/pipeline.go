package domain

// CleanResult is the output of the cleaning stage.
type CleanResult struct {
	Table *Table `json:"-"`

	RowsBefore             int     `json:"rows_before"`
	RowsAfter              int     `json:"rows_after"`
	RowsDropped            int     `json:"rows_dropped"`
	MissingParentEducation int     `json:"missing_parent_education"`
	AttendanceMedian       float64 `json:"attendance_median"`
	AttendanceFilled       int     `json:"attendance_filled"`
	AttendanceSum          float64 `json:"attendance_sum"`
}

// ColumnStatistics holds the descriptive statistics of one numeric column,
// rounded to two decimals. StdDev is nil when fewer than two values exist.
type ColumnStatistics struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	Mode   float64  `json:"mode"`
	StdDev *float64 `json:"std_dev"`
}

// GenderCounts counts rows by exact Gender value.
type GenderCounts struct {
	Female int `json:"female"`
	Male   int `json:"male"`
	Other  int `json:"other"`
}

// StatisticsReport is everything the statistics view renders.
type StatisticsReport struct {
	Statistics             ColumnStatistics `json:"statistics"`
	Gender                 GenderCounts     `json:"gender"`
	MissingParentEducation int              `json:"missing_parent_education"`
}

// AgeBand is a fixed age bucket with a half-open (Lower, Upper] range.
type AgeBand struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains reports whether age falls inside (Lower, Upper].
func (b AgeBand) Contains(age float64) bool {
	return age > b.Lower && age <= b.Upper
}

// AgeBands are the four reporting bands in ascending order.
var AgeBands = []AgeBand{
	{Label: "Até 17 anos", Lower: 0, Upper: 17},
	{Label: "18 a 21 anos", Lower: 17, Upper: 21},
	{Label: "22 a 24 anos", Lower: 21, Upper: 24},
	{Label: "25 anos ou mais", Lower: 24, Upper: 100},
}

// AgeBandCount is one band's row count.
type AgeBandCount struct {
	AgeBand
	Count     int  `json:"count"`
	NoRecords bool `json:"no_records"`
}

// AgeBandReport lists every band, including empty ones.
type AgeBandReport struct {
	Bands      []AgeBandCount `json:"bands"`
	EmptyBands []string       `json:"empty_bands"`
	Unbanded   int            `json:"unbanded"`
}

// DescribeTable is a per-column summary grid (first column holds the statistic name).
type DescribeTable struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}
