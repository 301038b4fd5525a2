package model

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/ppiankov/syllogix/internal/errors"
)

// ReasoningChain is the append-only ledger of steps for one top-level query.
// A chain is owned by a single caller; it is not safe for concurrent use.
type ReasoningChain struct {
	ID                     string           `json:"id"`
	MainQuery              string           `json:"main_query"`
	Steps                  []*ReasoningStep `json:"steps"`
	FinalConclusionSummary *string          `json:"final_conclusion_summary,omitempty"`
}

// NewChain starts an empty chain with a time-ordered ID
func NewChain(query string) *ReasoningChain {
	return &ReasoningChain{
		ID:        ulid.Make().String(),
		MainQuery: query,
	}
}

// AddStep appends a step; steps are never removed or reordered
func (c *ReasoningChain) AddStep(step *ReasoningStep) {
	c.Steps = append(c.Steps, step)
}

// NextStepID returns the ID the next appended step should carry
func (c *ReasoningChain) NextStepID() int {
	return len(c.Steps) + 1
}

// SetFinalConclusion records the closing summary
func (c *ReasoningChain) SetFinalConclusion(summary string) {
	c.FinalConclusionSummary = &summary
}

// GetProvenPremise finds an earlier valid conclusion usable as a trusted premise.
//
// Steps are scanned most recent first. A conclusion whose subject matches is
// returned as is. A conclusion whose predicate matches is converted only for
// E ("No") and I ("Some") forms, which are symmetric; A, O and Statistical
// matches are skipped and the scan continues with older steps. Matching
// trims and case-folds both sides. The chain is never modified.
func (c *ReasoningChain) GetProvenPremise(subject string) *Proposition {
	target := normalizeTerm(subject)
	if target == "" {
		return nil
	}

	for i := len(c.Steps) - 1; i >= 0; i-- {
		step := c.Steps[i]
		if step == nil || !step.IsValid {
			continue
		}
		concl := step.Conclusion()
		if concl == nil {
			continue
		}

		if concl.Subject != "" && normalizeTerm(concl.Subject) == target {
			return concl
		}

		if concl.Predicate != "" && normalizeTerm(concl.Predicate) == target {
			switch concl.Quantifier {
			case QuantifierNo, QuantifierSome:
				return NewProposition(concl.Quantifier, subject, concl.Subject)
			}
			// A needs existential import; O and Statistical do not convert at all
			continue
		}
	}

	return nil
}

// ProvenConclusions returns the conclusions of valid steps in ledger order
func (c *ReasoningChain) ProvenConclusions() []*Proposition {
	var out []*Proposition
	for _, step := range c.Steps {
		if step.IsValid && step.Conclusion() != nil {
			out = append(out, step.Conclusion())
		}
	}
	return out
}

// Render produces the diagnostic transcript. It fails only when a step holds
// a malformed Statistical proposition.
func (c *ReasoningChain) Render() (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "--- Reasoning Chain for: '%s' ---\n", c.MainQuery)
	for _, step := range c.Steps {
		mood := "None"
		if step.Mood != nil {
			mood = step.Mood.String()
		}
		status := "INVALID"
		if step.IsValid {
			status = "VALID"
		}

		fmt.Fprintf(&b, "\nStep %d: %s\n", step.StepID, step.Question)
		fmt.Fprintf(&b, "  Type: %s (Mood: %s)\n", step.ReasoningType, mood)
		fmt.Fprintf(&b, "  Status: %s (Conf: %.1f%%)\n", status, step.Confidence*100)

		if s := step.Syllogism; s != nil {
			for _, line := range []struct {
				label string
				prop  *Proposition
			}{
				{"Major", s.MajorPremise},
				{"Minor", s.MinorPremise},
				{"Conclusion", s.Conclusion},
			} {
				if line.prop == nil {
					continue
				}
				text, err := line.prop.Render()
				if err != nil {
					return "", errors.Wrapf(err, "step %d %s", step.StepID, strings.ToLower(line.label))
				}
				fmt.Fprintf(&b, "  %s: %s\n", line.label, text)
			}
		}
		if step.Summary != "" {
			fmt.Fprintf(&b, "  Summary: %s\n", step.Summary)
		}
		if len(step.Evidence) > 0 {
			fmt.Fprintf(&b, "  Evidence: %s\n", strings.Join(step.SourceIDs(), ", "))
		}
	}

	final := "None"
	if c.FinalConclusionSummary != nil {
		final = *c.FinalConclusionSummary
	}
	fmt.Fprintf(&b, "\n--- Final Conclusion ---\n%s\n", final)

	return b.String(), nil
}

// String implements fmt.Stringer
func (c *ReasoningChain) String() string {
	s, err := c.Render()
	if err != nil {
		return fmt.Sprintf("%%!(BADCHAIN %v)", err)
	}
	return s
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
