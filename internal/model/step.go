package model

import "strings"

// ReasoningType tags what kind of stage produced a step
type ReasoningType string

const (
	ReasoningDeductive   ReasoningType = "Deductive"   // syllogistic deduction
	ReasoningObservation ReasoningType = "Observation" // a starting fact or retrieved evidence
)

// Source is one retrieved piece of evidence referenced by a step
type Source struct {
	SourceID string `json:"source_id" yaml:"source_id"`
	Text     string `json:"text" yaml:"text"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"` // optional
}

// ReasoningStep is one entry of the reasoning ledger.
//
// IsValid, Mood, Confidence and Syllogism.Conclusion belong to the deductive
// validator whenever Syllogism is set. Summary is append-only.
type ReasoningStep struct {
	StepID        int           `json:"step_id"`
	Question      string        `json:"question"`
	ReasoningType ReasoningType `json:"reasoning_type"`
	Evidence      []Source      `json:"evidence,omitempty"`
	Syllogism     *Syllogism    `json:"syllogism,omitempty"`
	Mood          *Mood         `json:"mood,omitempty"`
	IsValid       bool          `json:"is_valid"`
	Confidence    float64       `json:"confidence"` // 1.0 for deduction, < 1.0 otherwise
	Summary       string        `json:"summary,omitempty"`
}

// NewStep returns a step with the ledger defaults (invalid, confidence 1.0)
func NewStep(id int, question string, kind ReasoningType) *ReasoningStep {
	return &ReasoningStep{
		StepID:        id,
		Question:      question,
		ReasoningType: kind,
		Confidence:    1.0,
	}
}

// NewDeductiveStep returns a Deductive step carrying a candidate syllogism
func NewDeductiveStep(id int, question string, major, minor *Proposition) *ReasoningStep {
	step := NewStep(id, question, ReasoningDeductive)
	step.Syllogism = NewSyllogism(major, minor)
	return step
}

// AppendSummary adds text to the summary, separated by a single space
func (s *ReasoningStep) AppendSummary(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if s.Summary == "" {
		s.Summary = text
		return
	}
	s.Summary += " " + text
}

// Conclusion returns the derived conclusion, if any
func (s *ReasoningStep) Conclusion() *Proposition {
	if s == nil || s.Syllogism == nil {
		return nil
	}
	return s.Syllogism.Conclusion
}

// SourceIDs returns the evidence source IDs in order
func (s *ReasoningStep) SourceIDs() []string {
	ids := make([]string, 0, len(s.Evidence))
	for _, src := range s.Evidence {
		ids = append(ids, src.SourceID)
	}
	return ids
}
