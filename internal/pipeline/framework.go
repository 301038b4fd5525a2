package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/syllogix/internal/cache"
	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/llm"
	"github.com/ppiankov/syllogix/internal/logger"
	"github.com/ppiankov/syllogix/internal/model"
	"github.com/ppiankov/syllogix/internal/validate"
	"github.com/ppiankov/syllogix/internal/worker"
)

// NoDeductionSummary closes a chain without any valid deductive step
const NoDeductionSummary = "No valid deduction could be established from the available evidence."

// Framework orchestrates one query: analysis, evidence, propositions,
// validation and chaining into an auditable ReasoningChain
type Framework struct {
	structurer *llm.Structurer
	validator  *validate.Validator
}

// NewFramework wires a structurer (nil or disabled means no LLM) and a validator
func NewFramework(structurer *llm.Structurer, validator *validate.Validator) *Framework {
	if validator == nil {
		validator = validate.NewValidator()
	}
	return &Framework{structurer: structurer, validator: validator}
}

// New builds a Framework from configuration: provider, response cache and
// per-provider rate limiting
func New(cfg *model.Config) (*Framework, error) {
	structurer, err := NewStructurer(cfg)
	if err != nil {
		return nil, err
	}
	return NewFramework(structurer, validate.NewValidator()), nil
}

// NewStructurer builds the LLM structurer described by cfg
func NewStructurer(cfg *model.Config, extra ...llm.StructurerOption) (*llm.Structurer, error) {
	llmConfig := llm.ConfigFromModel(cfg.LLM).WithEnvDefaults()
	if problems := llmConfig.Validate(); len(problems) > 0 {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "llm: %s", strings.Join(problems, "; ")),
			"check llm.* in the config file or SYLLOGIX_LLM_* variables",
		)
	}

	provider, err := llm.NewProvider(llmConfig)
	if err != nil {
		return nil, errors.Wrap(err, "create LLM provider")
	}

	var opts []llm.StructurerOption
	if cfg.Cache.Enabled {
		opts = append(opts, llm.WithCache(newResponseCache(cfg.Cache), cfg.Cache.TTL))
	}
	if cfg.RateLimiting.RequestsPerSecond > 0 {
		limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
		if provider != nil && provider.Name() == "ollama" {
			limiter.SetRate("ollama", 0, 0) // local server, no quota
		}
		opts = append(opts, llm.WithRateLimiter(limiter))
	}
	opts = append(opts, extra...)

	return llm.NewStructurer(provider, llmConfig, opts...), nil
}

func newResponseCache(cfg model.CacheConfig) cache.Cache {
	if cfg.Dir == "" {
		return cache.NewMemoryCache(cfg.TTL, 10*time.Minute, cfg.MaxEntries)
	}
	return cache.NewLayeredCache(cfg.TTL, cfg.MaxEntries, filepath.Clean(cfg.Dir), cfg.DiskTTL)
}

// LLMEnabled reports whether Reason will consult a model
func (f *Framework) LLMEnabled() bool {
	return f.structurer.IsEnabled()
}

// Reason runs the full pipeline for query on a fresh chain.
// With the LLM disabled the chain is returned with no steps.
// LLM failures abort with an error; invalid syllogisms never do.
func (f *Framework) Reason(ctx context.Context, query string) (*model.ReasoningChain, error) {
	chain := model.NewChain(query)
	ctx = logger.WithChainID(ctx, chain.ID)
	log := logger.FromContext(ctx).With(logger.FieldComponent, "framework")

	if !f.LLMEnabled() {
		log.Debugw("LLM disabled, returning empty chain", logger.FieldQuery, query)
		return chain, nil
	}

	start := time.Now()
	log.Infow("reasoning started", logger.FieldQuery, query, logger.FieldProvider, f.structurer.ProviderName())

	var analysis llm.QueryAnalysis
	if err := f.structurer.Generate(ctx, AnalysisPrompt(query), &analysis); err != nil {
		return chain, errors.Wrap(err, "analyze query")
	}

	var evidence llm.EvidenceCollection
	if err := f.structurer.Generate(ctx, EvidencePrompt(query, &analysis), &evidence); err != nil {
		return chain, errors.Wrap(err, "collect evidence")
	}
	observation := ObservationStep(chain, query, &evidence)
	chain.AddStep(observation)

	var set llm.PropositionSet
	if err := f.structurer.Generate(ctx, PropositionPrompt(query, &evidence), &set); err != nil {
		return chain, errors.Wrap(err, "extract propositions")
	}

	f.Deduce(ctx, chain, query, &set, observation.Evidence)
	chain.SetFinalConclusion(FinalSummary(chain))

	log.Infow("reasoning finished",
		logger.FieldCount, len(chain.Steps),
		logger.FieldValid, lastValidDeduction(chain) != nil,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return chain, nil
}

// ObservationStep records retrieved evidence as sources E1..En.
// Confidence is the mean of the item confidence labels.
func ObservationStep(chain *model.ReasoningChain, query string, evidence *llm.EvidenceCollection) *model.ReasoningStep {
	step := model.NewStep(chain.NextStepID(), fmt.Sprintf("What evidence bears on %q?", query), model.ReasoningObservation)
	for i, item := range evidence.EvidenceItems {
		step.Evidence = append(step.Evidence, model.Source{
			SourceID: fmt.Sprintf("E%d", i+1),
			Text:     item.Fact,
		})
	}
	step.IsValid = len(step.Evidence) > 0
	step.Confidence = evidence.MeanConfidence()
	step.AppendSummary(evidence.Summary)
	return step
}

// Deduce validates the chosen premises as a new step, then tries to chain
// every unused proposition with a conclusion already proven on the chain.
// It needs no LLM and returns the primary step.
func (f *Framework) Deduce(ctx context.Context, chain *model.ReasoningChain, question string, set *llm.PropositionSet, sources []model.Source) *model.ReasoningStep {
	log := logger.FromContext(ctx).With(logger.FieldComponent, "framework")

	step := model.NewDeductiveStep(chain.NextStepID(), question, set.Major(), set.Minor())
	texts := []string{set.Propositions[set.MajorPremiseIndex].SourceEvidence}
	if len(set.Propositions) > 1 {
		texts = append(texts, set.Propositions[set.MinorPremiseIndex].SourceEvidence)
	}
	step.Evidence = evidenceFor(sources, texts...)
	f.validator.Validate(step)
	chain.AddStep(step)
	logStep(log, step)

	for idx, spec := range set.Propositions {
		if idx == set.MajorPremiseIndex || idx == set.MinorPremiseIndex {
			continue
		}
		if chained := f.chainProposition(chain, question, spec, sources); chained != nil {
			logStep(log, chained)
		}
	}

	return step
}

// chainProposition pairs p with a proven premise on either of its terms and
// appends the first valid ordering
func (f *Framework) chainProposition(chain *model.ReasoningChain, question string, spec llm.PropositionSpec, sources []model.Source) *model.ReasoningStep {
	p := spec.ToModel()

	proven := chain.GetProvenPremise(p.Subject)
	if proven == nil || proven.Equal(p) {
		proven = chain.GetProvenPremise(p.Predicate)
	}
	if proven == nil || proven.Equal(p) {
		return nil
	}

	for _, pair := range [][2]*model.Proposition{{proven, p}, {p, proven}} {
		step := model.NewDeductiveStep(chain.NextStepID(), question, pair[0], pair[1])
		if f.validator.Validate(step).IsValid {
			step.Evidence = evidenceFor(sources, spec.SourceEvidence)
			chain.AddStep(step)
			return step
		}
	}
	return nil
}

// evidenceFor returns the sources whose text matches one of texts
func evidenceFor(sources []model.Source, texts ...string) []model.Source {
	wanted := make(map[string]bool, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			wanted[t] = true
		}
	}

	var refs []model.Source
	for _, src := range sources {
		if wanted[strings.TrimSpace(src.Text)] {
			refs = append(refs, src)
		}
	}
	return refs
}

// FinalSummary templates the closing line from the last valid deduction
func FinalSummary(chain *model.ReasoningChain) string {
	step := lastValidDeduction(chain)
	if step == nil {
		return NoDeductionSummary
	}
	return fmt.Sprintf("Therefore, %s (%s).", step.Conclusion(), *step.Mood)
}

func lastValidDeduction(chain *model.ReasoningChain) *model.ReasoningStep {
	for i := len(chain.Steps) - 1; i >= 0; i-- {
		s := chain.Steps[i]
		if s.ReasoningType == model.ReasoningDeductive && s.IsValid && s.Mood != nil && s.Conclusion() != nil {
			return s
		}
	}
	return nil
}

func logStep(log *zap.SugaredLogger, step *model.ReasoningStep) {
	mood := ""
	if step.Mood != nil {
		mood = step.Mood.String()
	}
	log.Debugw("deductive step validated",
		logger.FieldStepID, step.StepID,
		logger.FieldValid, step.IsValid,
		logger.FieldMood, mood,
	)
}
