// Package dataprocessing turns an uploaded student dataset into the figures
// the explorer shows. It covers loading, cleaning, age banding and
// descriptive statistics.
//
// # Architecture
//
// The package is organized into three stages:
//
// 1. Loader: decodes CSV or JSON into a domain.Table and rewrites "None" cells as missing
// 2. Cleaner: drops rows without parent education and fills missing attendance
// 3. Statistics: per-column statistics, gender counts, age bands and a describe table
//
// # Usage
//
//	loaded, err := dataprocessing.Load(file, "students.csv")
//	if err != nil {
//	    return err
//	}
//	cleaned, err := dataprocessing.Clean(loaded.Table)
//	if err != nil {
//	    return err
//	}
//	stats, err := dataprocessing.ComputeStatistics(cleaned.Table, "Final_Score")
//
// # Data Flow
//
//	bytes → Parser (by suffix) → Table → NormalizeMissing → Clean → Statistics
//
// # Error Handling
//
// Failures wrap the sentinels of internal/errors (ErrUnsupportedFormat,
// ErrMalformedDataset, ErrMissingColumn, ErrInvalidColumn,
// ErrEmptyStatisticsInput) so callers can match them with errors.Is.
//
// Every function here is pure: inputs are never modified except by
// NormalizeMissing, which rewrites the table it is given.
package dataprocessing
