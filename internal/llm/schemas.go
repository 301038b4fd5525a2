package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/model"
)

// Schema is a structured LLM output that can check its own shape
type Schema interface {
	// SchemaName identifies the schema in prompts, cache keys and logs
	SchemaName() string

	// Shape is a JSON example appended to the prompt
	Shape() string

	// Validate reports the first constraint the decoded value violates
	Validate() error
}

// Confidence labels accepted on evidence items
const (
	ConfidenceHigh      = "high"
	ConfidenceMedium    = "medium"
	ConfidenceLow       = "low"
	ConfidenceUncertain = "uncertain"
)

// ConfidenceWeight maps a label to a numeric confidence; unknown labels weigh 0
func ConfidenceWeight(label string) float64 {
	switch strings.ToLower(label) {
	case ConfidenceHigh:
		return 0.9
	case ConfidenceMedium:
		return 0.7
	case ConfidenceLow:
		return 0.5
	case ConfidenceUncertain:
		return 0.3
	}
	return 0
}

// QueryAnalysis is the structured reading of a user query
type QueryAnalysis struct {
	MainTopic            string   `json:"main_topic"`
	ReasoningType        string   `json:"reasoning_type"`
	KeyTerms             []string `json:"key_terms"`
	ExpectedAnswerFormat string   `json:"expected_answer_format"`
	Assumptions          []string `json:"assumptions,omitempty"`
}

func (QueryAnalysis) SchemaName() string { return "query_analysis" }

func (QueryAnalysis) Shape() string {
	return `{"main_topic": "string", "reasoning_type": "deductive|inductive|abductive", "key_terms": ["string"], "expected_answer_format": "string", "assumptions": ["string"]}`
}

func (a *QueryAnalysis) Validate() error {
	if strings.TrimSpace(a.MainTopic) == "" {
		return schemaError(a, "main_topic is required")
	}
	if len(a.KeyTerms) == 0 {
		return schemaError(a, "key_terms must not be empty")
	}
	return nil
}

// EvidenceItem is one retrieved fact
type EvidenceItem struct {
	Fact           string  `json:"fact"`
	RelevanceScore float64 `json:"relevance_score"`
	Confidence     string  `json:"confidence"`
}

func (i EvidenceItem) validate() error {
	if strings.TrimSpace(i.Fact) == "" {
		return errors.New("fact is required")
	}
	if i.RelevanceScore < 0 || i.RelevanceScore > 1 {
		return errors.Newf("relevance_score %.2f outside [0,1]", i.RelevanceScore)
	}
	if ConfidenceWeight(i.Confidence) == 0 {
		return errors.Newf("confidence %q is not one of high, medium, low, uncertain", i.Confidence)
	}
	return nil
}

// EvidenceCollection is the evidence retrieved for a query
type EvidenceCollection struct {
	Summary       string         `json:"summary"`
	EvidenceItems []EvidenceItem `json:"evidence_items"`
}

func (EvidenceCollection) SchemaName() string { return "evidence_collection" }

func (EvidenceCollection) Shape() string {
	return `{"summary": "string", "evidence_items": [{"fact": "string", "relevance_score": 0.0, "confidence": "high|medium|low|uncertain"}]}`
}

func (c *EvidenceCollection) Validate() error {
	for idx, item := range c.EvidenceItems {
		if err := item.validate(); err != nil {
			return schemaError(c, fmt.Sprintf("evidence_items[%d]: %v", idx, err))
		}
	}
	return nil
}

// MeanConfidence averages the item confidence weights; 0 when empty
func (c *EvidenceCollection) MeanConfidence() float64 {
	if len(c.EvidenceItems) == 0 {
		return 0
	}
	var total float64
	for _, item := range c.EvidenceItems {
		total += ConfidenceWeight(item.Confidence)
	}
	return total / float64(len(c.EvidenceItems))
}

// PropositionSpec is a proposition as authored by the model
type PropositionSpec struct {
	Quantifier     model.Quantifier `json:"quantifier"`
	Subject        string           `json:"subject"`
	Predicate      string           `json:"predicate"`
	SourceEvidence string           `json:"source_evidence"`
	StatValue      map[string]any   `json:"stat_value,omitempty"`
}

func (s PropositionSpec) validate() error {
	if !s.Quantifier.Valid() {
		return errors.Newf("unknown quantifier %q", s.Quantifier)
	}
	if strings.TrimSpace(s.Subject) == "" || strings.TrimSpace(s.Predicate) == "" {
		return errors.New("subject and predicate are required")
	}
	if s.Quantifier == model.QuantifierStatistical && len(s.StatValue) == 0 {
		return errors.New("statistical proposition needs stat_value")
	}
	return nil
}

// ToModel converts the spec into a ledger proposition
func (s PropositionSpec) ToModel() *model.Proposition {
	p := model.NewProposition(s.Quantifier, strings.TrimSpace(s.Subject), strings.TrimSpace(s.Predicate))
	if len(s.StatValue) > 0 {
		p.StatValue = s.StatValue
	}
	return p
}

// PropositionSet is 1-4 propositions plus the chosen premise indices
type PropositionSet struct {
	Propositions      []PropositionSpec `json:"propositions"`
	MajorPremiseIndex int               `json:"major_premise_index"`
	MinorPremiseIndex int               `json:"minor_premise_index"`
}

func (PropositionSet) SchemaName() string { return "proposition_set" }

func (PropositionSet) Shape() string {
	return `{"propositions": [{"quantifier": "All|No|Some|Some...not|Statistical", "subject": "string", "predicate": "string", "source_evidence": "string"}], "major_premise_index": 0, "minor_premise_index": 1}`
}

func (s *PropositionSet) Validate() error {
	n := len(s.Propositions)
	if n < 1 || n > 4 {
		return schemaError(s, fmt.Sprintf("expected 1 to 4 propositions, got %d", n))
	}
	for idx, p := range s.Propositions {
		if err := p.validate(); err != nil {
			return schemaError(s, fmt.Sprintf("propositions[%d]: %v", idx, err))
		}
	}
	if s.MajorPremiseIndex < 0 || s.MajorPremiseIndex >= n {
		return schemaError(s, fmt.Sprintf("major_premise_index %d out of range", s.MajorPremiseIndex))
	}
	if s.MinorPremiseIndex < 0 || s.MinorPremiseIndex >= n {
		return schemaError(s, fmt.Sprintf("minor_premise_index %d out of range", s.MinorPremiseIndex))
	}
	if n > 1 && s.MajorPremiseIndex == s.MinorPremiseIndex {
		return schemaError(s, "major and minor premise must differ")
	}
	return nil
}

// Major returns the chosen major premise; Validate must have passed
func (s *PropositionSet) Major() *model.Proposition {
	return s.Propositions[s.MajorPremiseIndex].ToModel()
}

// Minor returns the chosen minor premise, nil for a single-proposition set
func (s *PropositionSet) Minor() *model.Proposition {
	if len(s.Propositions) == 1 {
		return nil
	}
	return s.Propositions[s.MinorPremiseIndex].ToModel()
}

// HealthCheck is the minimal schema used to probe a provider
type HealthCheck struct {
	Status string `json:"status"`
}

func (HealthCheck) SchemaName() string { return "health_check" }

func (HealthCheck) Shape() string { return `{"status": "healthy"}` }

func (h *HealthCheck) Validate() error {
	if h.Status == "" {
		return schemaError(h, "status is required")
	}
	return nil
}

func schemaError(s Schema, msg string) error {
	return errors.Wrapf(ErrSchemaViolation, "%s: %s", s.SchemaName(), msg)
}
