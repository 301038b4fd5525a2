package validate

import (
	"github.com/ppiankov/syllogix/internal/model"
)

// Summary markers appended to a step that fails validation
const (
	MarkerMissingPremises = "[EngineError: Missing one or more premises]"
	MarkerNoMatchingMood  = "[EngineError: Premises do not form a valid known syllogism]"
)

// Validator checks reasoning steps against the classical valid moods.
//
// Validation is pure symbolic deduction: Statistical propositions never match
// a rule and no step is ever labelled inductive here. A missing premise or an
// unmatched pair is an ordinary outcome recorded on the step, never an error.
type Validator struct {
	rules *RuleSet
}

// NewValidator creates a validator over the default rule table
func NewValidator() *Validator {
	return &Validator{rules: DefaultRuleSet()}
}

// NewValidatorWithRules creates a validator over a custom table
func NewValidatorWithRules(rules *RuleSet) *Validator {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	return &Validator{rules: rules}
}

// Rules returns the table the validator drives
func (v *Validator) Rules() *RuleSet {
	return v.rules
}

// Validate updates step in place and returns it.
// The first matching rule in table order wins: the step becomes valid with
// that mood, its conclusion and confidence 1.0.
func (v *Validator) Validate(step *model.ReasoningStep) *model.ReasoningStep {
	if step == nil {
		return nil
	}

	if !step.Syllogism.Complete() {
		step.IsValid = false
		step.AppendSummary(MarkerMissingPremises)
		return step
	}

	rule, conclusion, ok := v.rules.First(step.Syllogism.MajorPremise, step.Syllogism.MinorPremise)
	if !ok {
		step.IsValid = false
		step.AppendSummary(MarkerNoMatchingMood)
		return step
	}

	mood := rule.Mood
	step.IsValid = true
	step.Syllogism.Conclusion = conclusion
	step.Mood = &mood
	step.Confidence = 1.0
	return step
}

// ValidatePremises is a convenience wrapper that builds a one-off deductive step
func (v *Validator) ValidatePremises(question string, major, minor *model.Proposition) *model.ReasoningStep {
	return v.Validate(model.NewDeductiveStep(1, question, major, minor))
}
