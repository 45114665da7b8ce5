package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	apierrors "studentlens/internal/errors"
)

// MinNameLetters is the minimum number of non-space characters in a name.
const MinNameLetters = 3

// NameStatus is the outcome of a name check.
type NameStatus int

const (
	// NamePending means no name has been entered yet.
	NamePending NameStatus = iota
	NameValid
	NameInvalid
)

func (s NameStatus) String() string {
	switch s {
	case NameValid:
		return "valid"
	case NameInvalid:
		return "invalid"
	default:
		return "pending"
	}
}

// MarshalText renders the status as its name
func (s NameStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ValidateName checks a user name: at least three characters once spaces are
// removed, and every word made only of letters.
func ValidateName(name string) (NameStatus, error) {
	if name == "" {
		return NamePending, nil
	}

	if utf8.RuneCountInString(strings.ReplaceAll(name, " ", "")) < MinNameLetters {
		return NameInvalid, apierrors.InvalidName(name)
	}

	words := strings.Fields(name)
	if len(words) == 0 {
		return NameInvalid, apierrors.InvalidName(name)
	}
	for _, w := range words {
		for _, r := range w {
			if !unicode.IsLetter(r) {
				return NameInvalid, apierrors.InvalidName(name)
			}
		}
	}

	return NameValid, nil
}
