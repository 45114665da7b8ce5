package validation

import (
	"strings"

	apierrors "studentlens/internal/errors"
)

// Accepted dataset extensions. Matching is case-sensitive.
const (
	ExtCSV  = ".csv"
	ExtJSON = ".json"
)

// Upload describes a file handed to the tool by the presentation layer.
type Upload struct {
	Filename string
	Size     int64
}

// ValidateUpload reports whether u may be loaded. A nil upload means nothing
// was selected yet and is not an error.
func ValidateUpload(u *Upload) (bool, error) {
	if u == nil {
		return false, nil
	}

	switch Suffix(u.Filename) {
	case ExtCSV, ExtJSON:
		return true, nil
	default:
		return false, apierrors.UnsupportedFormat(u.Filename)
	}
}

// Suffix returns the final extension of the last path element, including the
// dot. Names made only of a leading dot (".csv") and names ending in a dot
// have no suffix.
func Suffix(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}
