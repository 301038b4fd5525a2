package model

import (
	"strings"

	"github.com/ppiankov/syllogix/internal/errors"
)

// Quantifier is the logical quantity/quality of a categorical proposition
type Quantifier string

const (
	QuantifierAll         Quantifier = "All"         // A: universal affirmative
	QuantifierNo          Quantifier = "No"          // E: universal negative
	QuantifierSome        Quantifier = "Some"        // I: particular affirmative
	QuantifierSomeNot     Quantifier = "Some...not"  // O: particular negative
	QuantifierStatistical Quantifier = "Statistical" // opaque, e.g. "80% of"
)

// Quantifiers lists every quantifier in canonical A, E, I, O order, then Statistical
var Quantifiers = []Quantifier{
	QuantifierAll,
	QuantifierNo,
	QuantifierSome,
	QuantifierSomeNot,
	QuantifierStatistical,
}

// Valid reports whether q is one of the known quantifiers
func (q Quantifier) Valid() bool {
	switch q {
	case QuantifierAll, QuantifierNo, QuantifierSome, QuantifierSomeNot, QuantifierStatistical:
		return true
	default:
		return false
	}
}

// Letter returns the traditional vowel (A, E, I, O) or "" for Statistical
func (q Quantifier) Letter() string {
	switch q {
	case QuantifierAll:
		return "A"
	case QuantifierNo:
		return "E"
	case QuantifierSome:
		return "I"
	case QuantifierSomeNot:
		return "O"
	default:
		return ""
	}
}

// Categorical reports whether q takes part in syllogistic deduction
func (q Quantifier) Categorical() bool {
	return q.Valid() && q != QuantifierStatistical
}

// ParseQuantifier accepts the canonical spelling plus a few common variants
// ("SomeNot", "some not", "A"/"E"/"I"/"O").
func ParseQuantifier(s string) (Quantifier, error) {
	norm := strings.ToLower(strings.Join(strings.Fields(s), " "))
	switch norm {
	case "all", "a":
		return QuantifierAll, nil
	case "no", "e":
		return QuantifierNo, nil
	case "some", "i":
		return QuantifierSome, nil
	case "some...not", "somenot", "some not", "some ... not", "o":
		return QuantifierSomeNot, nil
	case "statistical":
		return QuantifierStatistical, nil
	}
	return "", errors.Wrapf(errors.ErrInvalidInput, "unknown quantifier %q", s)
}

// UnmarshalText lets JSON/YAML decoders accept the variants ParseQuantifier knows
func (q *Quantifier) UnmarshalText(text []byte) error {
	parsed, err := ParseQuantifier(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// MarshalText emits the canonical spelling
func (q Quantifier) MarshalText() ([]byte, error) {
	return []byte(q), nil
}
