package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/llm"
	"github.com/ppiankov/syllogix/internal/model"
	"github.com/ppiankov/syllogix/internal/validate"
)

// schemaProvider answers by the schema name embedded in the prompt
type schemaProvider struct {
	mu      sync.Mutex
	answers map[string]string
	errs    map[string]error
	calls   []string
}

func (p *schemaProvider) Name() string                     { return "fake" }
func (p *schemaProvider) IsAvailable(context.Context) bool { return true }

func (p *schemaProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for name, answer := range p.answers {
		if strings.Contains(req.Prompt, "schema "+name) {
			p.calls = append(p.calls, name)
			if err := p.errs[name]; err != nil {
				return nil, err
			}
			return &llm.CompletionResponse{Text: answer}, nil
		}
	}
	return nil, errors.New("unexpected prompt")
}

const (
	analysisJSON = `{"main_topic": "mortality", "reasoning_type": "deductive", "key_terms": ["Socrates", "men", "mortal"], "expected_answer_format": "yes/no"}`
	evidenceJSON = `{"summary": "Men are mortal and Socrates is a man.", "evidence_items": [
		{"fact": "All men are mortal", "relevance_score": 1.0, "confidence": "high"},
		{"fact": "Socrates is a man", "relevance_score": 1.0, "confidence": "high"},
		{"fact": "Socrates is Greek", "relevance_score": 0.4, "confidence": "medium"}
	]}`
	propositionsJSON = `{"propositions": [
		{"quantifier": "All", "subject": "men", "predicate": "mortal", "source_evidence": "All men are mortal"},
		{"quantifier": "All", "subject": "Socrates", "predicate": "men", "source_evidence": "Socrates is a man"},
		{"quantifier": "All", "subject": "Socrates", "predicate": "Greeks", "source_evidence": "Socrates is Greek"}
	], "major_premise_index": 0, "minor_premise_index": 1}`
)

func socratesFramework(t *testing.T) (*Framework, *schemaProvider) {
	t.Helper()
	p := &schemaProvider{answers: map[string]string{
		"query_analysis":      analysisJSON,
		"evidence_collection": evidenceJSON,
		"proposition_set":     propositionsJSON,
	}}
	s := llm.NewStructurer(p, llm.Config{Provider: "fake", MaxRetries: 0})
	return NewFramework(s, nil), p
}

func TestFramework_Reason_Socrates(t *testing.T) {
	f, p := socratesFramework(t)

	chain, err := f.Reason(context.Background(), "Is Socrates mortal?")
	require.NoError(t, err)
	assert.Equal(t, []string{"query_analysis", "evidence_collection", "proposition_set"}, p.calls)

	require.Len(t, chain.Steps, 3)

	obs := chain.Steps[0]
	assert.Equal(t, model.ReasoningObservation, obs.ReasoningType)
	assert.True(t, obs.IsValid)
	assert.Equal(t, []string{"E1", "E2", "E3"}, obs.SourceIDs())
	assert.InDelta(t, (0.9+0.9+0.7)/3, obs.Confidence, 1e-9)
	assert.Equal(t, "Men are mortal and Socrates is a man.", obs.Summary)

	deduction := chain.Steps[1]
	assert.Equal(t, 2, deduction.StepID)
	assert.True(t, deduction.IsValid)
	require.NotNil(t, deduction.Mood)
	assert.Equal(t, model.MoodBarbara, *deduction.Mood)
	assert.Equal(t, "All Socrates are mortal", deduction.Conclusion().String())
	assert.Equal(t, []string{"E1", "E2"}, deduction.SourceIDs())

	// the unused proposition shares its subject with the proven conclusion
	chained := chain.Steps[2]
	assert.Equal(t, 3, chained.StepID)
	assert.True(t, chained.IsValid)
	assert.Equal(t, model.MoodDarapti, *chained.Mood)
	assert.Equal(t, "All Socrates are mortal", chained.Syllogism.MajorPremise.String())
	assert.Equal(t, "Some Greeks are mortal", chained.Conclusion().String())
	assert.Equal(t, []string{"E3"}, chained.SourceIDs())

	require.NotNil(t, chain.FinalConclusionSummary)
	assert.Equal(t, "Therefore, Some Greeks are mortal (Darapti).", *chain.FinalConclusionSummary)
}

func TestFramework_Reason_Disabled(t *testing.T) {
	f := NewFramework(llm.NewStructurer(nil, llm.Config{}), nil)
	assert.False(t, f.LLMEnabled())

	chain, err := f.Reason(context.Background(), "Is Socrates mortal?")
	require.NoError(t, err)
	assert.Equal(t, "Is Socrates mortal?", chain.MainQuery)
	assert.Empty(t, chain.Steps)
	assert.Nil(t, chain.FinalConclusionSummary)
}

func TestFramework_Reason_LLMFailureAborts(t *testing.T) {
	f, p := socratesFramework(t)
	p.errs = map[string]error{"evidence_collection": errors.New("provider down")}

	chain, err := f.Reason(context.Background(), "Is Socrates mortal?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collect evidence")
	require.NotNil(t, chain)
	assert.Empty(t, chain.Steps)
}

func TestFramework_Reason_InvalidSyllogismIsNotAnError(t *testing.T) {
	f, p := socratesFramework(t)
	p.answers["proposition_set"] = `{"propositions": [
		{"quantifier": "All", "subject": "cats", "predicate": "animals", "source_evidence": "x"},
		{"quantifier": "Some", "subject": "dogs", "predicate": "pets", "source_evidence": "y"}
	], "major_premise_index": 0, "minor_premise_index": 1}`

	chain, err := f.Reason(context.Background(), "Are cats pets?")
	require.NoError(t, err)
	require.Len(t, chain.Steps, 2)
	assert.False(t, chain.Steps[1].IsValid)
	assert.Contains(t, chain.Steps[1].Summary, validate.MarkerNoMatchingMood)
	assert.Equal(t, NoDeductionSummary, *chain.FinalConclusionSummary)
}

func TestFramework_Deduce_WithoutLLM(t *testing.T) {
	f := NewFramework(nil, nil)
	chain := model.NewChain("Are some birds non-flyers?")

	set := &llm.PropositionSet{
		Propositions: []llm.PropositionSpec{
			{Quantifier: model.QuantifierNo, Subject: "penguins", Predicate: "flyers", SourceEvidence: "Penguins cannot fly"},
			{Quantifier: model.QuantifierSome, Subject: "birds", Predicate: "penguins", SourceEvidence: "Some birds are penguins"},
		},
		MajorPremiseIndex: 0,
		MinorPremiseIndex: 1,
	}
	sources := []model.Source{
		{SourceID: "E1", Text: "Penguins cannot fly"},
		{SourceID: "E2", Text: "Some birds are penguins"},
	}

	step := f.Deduce(context.Background(), chain, "Do all birds fly?", set, sources)
	require.True(t, step.IsValid)
	assert.Equal(t, model.MoodFerio, *step.Mood)
	assert.Equal(t, "Some birds are not flyers", step.Conclusion().String())
	assert.Equal(t, []string{"E1", "E2"}, step.SourceIDs())
	assert.Len(t, chain.Steps, 1)
}

func TestFramework_Deduce_ChainsThroughConvertedPremise(t *testing.T) {
	f := NewFramework(nil, nil)
	chain := model.NewChain("q")

	// step 1 proves "No reptiles are mammals"
	first := &llm.PropositionSet{
		Propositions: []llm.PropositionSpec{
			{Quantifier: model.QuantifierNo, Subject: "cold-blooded", Predicate: "mammals"},
			{Quantifier: model.QuantifierAll, Subject: "reptiles", Predicate: "cold-blooded"},
		},
		MinorPremiseIndex: 1,
	}
	require.True(t, f.Deduce(context.Background(), chain, "q1", first, nil).IsValid)

	// "mammals" only appears as a predicate; the E conclusion is converted
	second := &llm.PropositionSet{
		Propositions: []llm.PropositionSpec{
			{Quantifier: model.QuantifierAll, Subject: "a", Predicate: "b"},
			{Quantifier: model.QuantifierAll, Subject: "c", Predicate: "a"},
			{Quantifier: model.QuantifierAll, Subject: "whales", Predicate: "mammals"},
		},
		MinorPremiseIndex: 1,
	}
	f.Deduce(context.Background(), chain, "q2", second, nil)

	require.Len(t, chain.Steps, 3)
	chained := chain.Steps[2]
	require.True(t, chained.IsValid)
	// major "No mammals are reptiles", minor "All whales are mammals"
	assert.Equal(t, model.MoodCelarent, *chained.Mood)
	assert.Equal(t, "No whales are reptiles", chained.Conclusion().String())
}

func TestFramework_Deduce_SingleProposition(t *testing.T) {
	f := NewFramework(nil, nil)
	chain := model.NewChain("q")
	set := &llm.PropositionSet{Propositions: []llm.PropositionSpec{
		{Quantifier: model.QuantifierAll, Subject: "men", Predicate: "mortal"},
	}}

	step := f.Deduce(context.Background(), chain, "q", set, nil)
	assert.False(t, step.IsValid)
	assert.Contains(t, step.Summary, validate.MarkerMissingPremises)
}

func TestFinalSummary(t *testing.T) {
	chain := model.NewChain("q")
	assert.Equal(t, NoDeductionSummary, FinalSummary(chain))

	v := validate.NewValidator()
	step := v.ValidatePremises("q",
		model.NewProposition(model.QuantifierAll, "men", "mortal"),
		model.NewProposition(model.QuantifierAll, "Greeks", "men"),
	)
	chain.AddStep(step)
	assert.Equal(t, "Therefore, All Greeks are mortal (Barbara).", FinalSummary(chain))

	chain.AddStep(v.ValidatePremises("q2", nil, nil))
	assert.Equal(t, "Therefore, All Greeks are mortal (Barbara).", FinalSummary(chain), "invalid later steps are skipped")
}

func TestNewStructurer_FromConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	s, err := NewStructurer(cfg)
	require.NoError(t, err)
	assert.False(t, s.IsEnabled())

	cfg.LLM.Provider = "anthropic"
	cfg.LLM.APIKey = ""
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err = NewStructurer(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	cfg.LLM.Provider = "ollama"
	cfg.LLM.Model = "mistral"
	cfg.Cache.Dir = t.TempDir()
	s, err = NewStructurer(cfg)
	require.NoError(t, err)
	assert.Equal(t, "ollama", s.ProviderName())
}
