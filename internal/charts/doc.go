// Package charts renders PNG charts of a cleaned student table.
//
// Simple mode offers age band and gender bar charts (go-chart). Detailed
// mode adds a histogram of the selected column and an attendance versus
// final score scatter plot (gonum/plot).
package charts
