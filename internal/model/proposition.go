package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/syllogix/internal/errors"
)

var (
	// ErrMissingStatValue is returned when a Statistical proposition carries no payload
	ErrMissingStatValue = errors.New("statistical proposition must have a stat_value")

	// ErrInvalidProposition is returned when text cannot be parsed as a proposition
	ErrInvalidProposition = errors.Wrap(errors.ErrInvalidInput, "invalid proposition")
)

// Proposition is a quantified subject-predicate statement.
// Values are never mutated after construction; derivations build new ones.
type Proposition struct {
	Quantifier Quantifier     `json:"quantifier" yaml:"quantifier"`
	Subject    string         `json:"subject" yaml:"subject"`
	Predicate  string         `json:"predicate" yaml:"predicate"`
	IsNegated  bool           `json:"is_negated,omitempty" yaml:"is_negated,omitempty"`
	StatValue  map[string]any `json:"stat_value,omitempty" yaml:"stat_value,omitempty"` // e.g. {"type": "percentage", "value": 80}
}

// NewProposition builds a categorical proposition
func NewProposition(q Quantifier, subject, predicate string) *Proposition {
	return &Proposition{Quantifier: q, Subject: subject, Predicate: predicate}
}

// NewStatistical builds a Statistical proposition with a percentage payload
func NewStatistical(percent float64, subject, predicate string) *Proposition {
	return &Proposition{
		Quantifier: QuantifierStatistical,
		Subject:    subject,
		Predicate:  predicate,
		StatValue:  map[string]any{"type": "percentage", "value": percent},
	}
}

// Render returns the human-readable form, or ErrMissingStatValue
func (p *Proposition) Render() (string, error) {
	switch p.Quantifier {
	case QuantifierStatistical:
		if len(p.StatValue) == 0 {
			return "", errors.Wrapf(ErrMissingStatValue, "%s / %s", p.Subject, p.Predicate)
		}
		val, ok := p.StatValue["value"]
		if !ok {
			val = "Most"
		}
		return fmt.Sprintf("%v%% of %s are %s", val, p.Subject, p.Predicate), nil
	case QuantifierSomeNot:
		return fmt.Sprintf("Some %s are not %s", p.Subject, p.Predicate), nil
	default:
		return fmt.Sprintf("%s %s are %s", p.Quantifier, p.Subject, p.Predicate), nil
	}
}

// String implements fmt.Stringer; malformed propositions render as a marker
func (p *Proposition) String() string {
	s, err := p.Render()
	if err != nil {
		return fmt.Sprintf("%%!(BADPROPOSITION %v)", err)
	}
	return s
}

// Equal compares quantifier and terms exactly
func (p *Proposition) Equal(other *Proposition) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Quantifier == other.Quantifier &&
		p.Subject == other.Subject &&
		p.Predicate == other.Predicate &&
		p.IsNegated == other.IsNegated
}

var (
	categoricalPattern = regexp.MustCompile(`^(?i)(all|no|some)\s+(.+?)\s+are\s+(not\s+)?(.+)$`)
	statisticalPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*%\s+of\s+(.+?)\s+are\s+(.+)$`)
)

// ParseProposition reads the rendered form back into a Proposition.
// Terms are kept verbatim apart from surrounding whitespace.
func ParseProposition(text string) (*Proposition, error) {
	s := strings.Join(strings.Fields(text), " ")
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return nil, errors.Wrap(ErrInvalidProposition, "empty text")
	}

	if m := statisticalPattern.FindStringSubmatch(s); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidProposition, "percentage %q", m[1])
		}
		if value < 0 || value > 100 {
			return nil, errors.Wrapf(ErrInvalidProposition, "percentage %v out of range", value)
		}
		return NewStatistical(value, m[2], m[3]), nil
	}

	m := categoricalPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, errors.WithHint(
			errors.Wrapf(ErrInvalidProposition, "%q", text),
			`use "All|No|Some <S> are <P>", "Some <S> are not <P>" or "<n>% of <S> are <P>"`,
		)
	}

	q, err := ParseQuantifier(m[1])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidProposition, err.Error())
	}
	if m[3] != "" {
		if q != QuantifierSome {
			return nil, errors.Wrapf(ErrInvalidProposition, "%q: only \"Some\" takes \"not\"", text)
		}
		q = QuantifierSomeNot
	}

	return NewProposition(q, m[2], m[4]), nil
}
