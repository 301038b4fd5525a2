package validate

import (
	"fmt"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/model"
)

// Figure is the position of the middle term M across the two premises.
// S is the subject and P the predicate of the conclusion.
type Figure int

const (
	Figure1 Figure = iota + 1 // M-P, S-M
	Figure2                   // P-M, S-M
	Figure3                   // M-P, M-S
	Figure4                   // P-M, M-S
)

// Pattern returns the (major, minor) term layout
func (f Figure) Pattern() string {
	switch f {
	case Figure1:
		return "M-P, S-M"
	case Figure2:
		return "P-M, S-M"
	case Figure3:
		return "M-P, M-S"
	case Figure4:
		return "P-M, M-S"
	default:
		return "?"
	}
}

// sharesMiddle tests the figure's shared-term precondition (exact string identity)
func (f Figure) sharesMiddle(major, minor *model.Proposition) bool {
	switch f {
	case Figure1:
		return major.Subject == minor.Predicate
	case Figure2:
		return major.Predicate == minor.Predicate
	case Figure3:
		return major.Subject == minor.Subject
	case Figure4:
		return major.Predicate == minor.Subject
	default:
		return false
	}
}

// terms extracts the conclusion's S and P
func (f Figure) terms(major, minor *model.Proposition) (s, p string) {
	switch f {
	case Figure1:
		return minor.Subject, major.Predicate
	case Figure2:
		return minor.Subject, major.Subject
	case Figure3:
		return minor.Predicate, major.Predicate
	default:
		return minor.Predicate, major.Subject
	}
}

// Rule is one valid mood: a quantifier pair in a figure and the conclusion it licenses
type Rule struct {
	Mood       model.Mood
	Figure     Figure
	Major      model.Quantifier
	Minor      model.Quantifier
	Conclusion model.Quantifier
}

// Form returns the traditional code, e.g. "AAA-1"
func (r Rule) Form() string {
	return fmt.Sprintf("%s%s%s-%d", r.Major.Letter(), r.Minor.Letter(), r.Conclusion.Letter(), r.Figure)
}

// Apply returns the conclusion when the premises instantiate the rule, nil otherwise.
// It never mutates its inputs.
func (r Rule) Apply(major, minor *model.Proposition) *model.Proposition {
	if major == nil || minor == nil {
		return nil
	}
	if major.Quantifier != r.Major || minor.Quantifier != r.Minor {
		return nil
	}
	if !r.Figure.sharesMiddle(major, minor) {
		return nil
	}
	s, p := r.Figure.terms(major, minor)
	return model.NewProposition(r.Conclusion, s, p)
}

// Describe renders the rule schematically, e.g. "All M are P, All S are M => All S are P"
func (r Rule) Describe() string {
	var major, minor *model.Proposition
	switch r.Figure {
	case Figure1:
		major, minor = model.NewProposition(r.Major, "M", "P"), model.NewProposition(r.Minor, "S", "M")
	case Figure2:
		major, minor = model.NewProposition(r.Major, "P", "M"), model.NewProposition(r.Minor, "S", "M")
	case Figure3:
		major, minor = model.NewProposition(r.Major, "M", "P"), model.NewProposition(r.Minor, "M", "S")
	default:
		major, minor = model.NewProposition(r.Major, "P", "M"), model.NewProposition(r.Minor, "M", "S")
	}
	return fmt.Sprintf("%s, %s => %s", major, minor, model.NewProposition(r.Conclusion, "S", "P"))
}

const (
	qA = model.QuantifierAll
	qE = model.QuantifierNo
	qI = model.QuantifierSome
	qO = model.QuantifierSomeNot
)

// defaultRules is the precedence order: figure 1 to 4, conventional order within a figure.
var defaultRules = []Rule{
	{model.MoodBarbara, Figure1, qA, qA, qA},
	{model.MoodCelarent, Figure1, qE, qA, qE},
	{model.MoodDarii, Figure1, qA, qI, qI},
	{model.MoodFerio, Figure1, qE, qI, qO},

	{model.MoodCesare, Figure2, qE, qA, qE},
	{model.MoodCamestres, Figure2, qA, qE, qE},
	{model.MoodFestino, Figure2, qE, qI, qO},
	{model.MoodBaroco, Figure2, qA, qO, qO},

	{model.MoodDarapti, Figure3, qA, qA, qI},
	{model.MoodFelapton, Figure3, qE, qA, qO},
	{model.MoodDisamis, Figure3, qI, qA, qI},
	{model.MoodDatisi, Figure3, qA, qI, qI},
	{model.MoodBocardo, Figure3, qO, qA, qO},
	{model.MoodFerison, Figure3, qE, qI, qO},

	{model.MoodBaralipton, Figure4, qA, qA, qI},
	{model.MoodCelantes, Figure4, qE, qA, qE},
	{model.MoodDabitis, Figure4, qI, qA, qI},
	{model.MoodFapesmo, Figure4, qE, qI, qO},
	{model.MoodCamenes, Figure4, qA, qE, qE},
}

// RuleSet is an ordered, immutable table of mood rules
type RuleSet struct {
	rules []Rule
	index map[model.Mood]int
}

// NewRuleSet builds a table, rejecting duplicate moods and rules that share a
// figure and quantifier pair (one of them could never fire).
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	type shape struct {
		figure       Figure
		major, minor model.Quantifier
	}

	rs := &RuleSet{
		rules: make([]Rule, 0, len(rules)),
		index: make(map[model.Mood]int, len(rules)),
	}
	shapes := make(map[shape]model.Mood, len(rules))

	for _, r := range rules {
		if r.Figure < Figure1 || r.Figure > Figure4 {
			return nil, errors.Newf("mood %s: unknown figure %d", r.Mood, r.Figure)
		}
		if !r.Major.Categorical() || !r.Minor.Categorical() || !r.Conclusion.Categorical() {
			return nil, errors.Newf("mood %s: quantifiers must be A, E, I or O", r.Mood)
		}
		if _, dup := rs.index[r.Mood]; dup {
			return nil, errors.Newf("mood %s registered twice", r.Mood)
		}
		key := shape{r.Figure, r.Major, r.Minor}
		if other, dup := shapes[key]; dup {
			return nil, errors.Newf("mood %s shadows %s (%s)", r.Mood, other, r.Form())
		}
		shapes[key] = r.Mood
		rs.index[r.Mood] = len(rs.rules)
		rs.rules = append(rs.rules, r)
	}

	return rs, nil
}

var defaultRuleSet = mustRuleSet(defaultRules...)

func mustRuleSet(rules ...Rule) *RuleSet {
	rs, err := NewRuleSet(rules...)
	if err != nil {
		panic(err)
	}
	return rs
}

// DefaultRuleSet returns the classical table of valid moods
func DefaultRuleSet() *RuleSet {
	return defaultRuleSet
}

// Rules returns a copy of the table in precedence order
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of rules
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Lookup finds a rule by mood name
func (rs *RuleSet) Lookup(mood model.Mood) (Rule, bool) {
	i, ok := rs.index[mood]
	if !ok {
		return Rule{}, false
	}
	return rs.rules[i], true
}

// First returns the first rule, in table order, matched by the premises
func (rs *RuleSet) First(major, minor *model.Proposition) (Rule, *model.Proposition, bool) {
	for _, r := range rs.rules {
		if concl := r.Apply(major, minor); concl != nil {
			return r, concl, true
		}
	}
	return Rule{}, nil, false
}

// Matches returns every mood whose precondition holds, in table order.
// Distinct terms yield at most one mood; a premise that reuses a term
// (All M are M) can satisfy several figures at once.
func (rs *RuleSet) Matches(major, minor *model.Proposition) []model.Mood {
	var moods []model.Mood
	for _, r := range rs.rules {
		if r.Apply(major, minor) != nil {
			moods = append(moods, r.Mood)
		}
	}
	return moods
}
