package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/logger"
	"github.com/ppiankov/syllogix/internal/model"
)

// Script is an offline reasoning session: premises are given as text and
// may refer back to conclusions proven by earlier steps
type Script struct {
	Query    string         `yaml:"query"`
	Evidence []model.Source `yaml:"evidence,omitempty"`
	Steps    []ScriptStep   `yaml:"steps"`
}

// ScriptStep is one deduction. Each premise is either proposition text
// (Major/Minor) or a term resolved through the chain (MajorFrom/MinorFrom).
type ScriptStep struct {
	Question  string   `yaml:"question"`
	Major     string   `yaml:"major,omitempty"`
	Minor     string   `yaml:"minor,omitempty"`
	MajorFrom string   `yaml:"major_from,omitempty"`
	MinorFrom string   `yaml:"minor_from,omitempty"`
	Evidence  []string `yaml:"evidence,omitempty"` // source IDs from Script.Evidence
}

// LoadScript reads a YAML script from disk
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	return ParseScript(data)
}

// ParseScript decodes and checks a YAML script
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidInput), "parse script")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the script's shape; premise text is checked when run
func (s *Script) Validate() error {
	if strings.TrimSpace(s.Query) == "" {
		return errors.Wrap(errors.ErrInvalidInput, "script: query is required")
	}
	if len(s.Steps) == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "script: at least one step is required")
	}

	ids := make(map[string]bool, len(s.Evidence))
	for _, src := range s.Evidence {
		if src.SourceID == "" {
			return errors.Wrap(errors.ErrInvalidInput, "script: evidence needs a source_id")
		}
		ids[src.SourceID] = true
	}

	for i, step := range s.Steps {
		if step.Major != "" && step.MajorFrom != "" {
			return errors.Wrapf(errors.ErrInvalidInput, "script: step %d sets both major and major_from", i+1)
		}
		if step.Minor != "" && step.MinorFrom != "" {
			return errors.Wrapf(errors.ErrInvalidInput, "script: step %d sets both minor and minor_from", i+1)
		}
		for _, id := range step.Evidence {
			if !ids[id] {
				return errors.Wrapf(errors.ErrInvalidInput, "script: step %d cites unknown evidence %s", i+1, id)
			}
		}
	}
	return nil
}

// RunScript validates every step in order on one chain.
// Unresolvable references leave the premise empty, so the step is recorded
// with a missing-premise marker rather than failing the run.
func (f *Framework) RunScript(ctx context.Context, s *Script) (*model.ReasoningChain, error) {
	chain := model.NewChain(s.Query)
	ctx = logger.WithChainID(ctx, chain.ID)
	log := logger.FromContext(ctx).With(logger.FieldComponent, "script")

	sources := make(map[string]model.Source, len(s.Evidence))
	for _, src := range s.Evidence {
		sources[src.SourceID] = src
	}

	for i, st := range s.Steps {
		major, err := resolvePremise(chain, st.Major, st.MajorFrom)
		if err != nil {
			return chain, errors.Wrapf(err, "step %d major", i+1)
		}
		minor, err := resolvePremise(chain, st.Minor, st.MinorFrom)
		if err != nil {
			return chain, errors.Wrapf(err, "step %d minor", i+1)
		}

		question := st.Question
		if question == "" {
			question = fmt.Sprintf("Step %d of %q", i+1, s.Query)
		}

		step := model.NewDeductiveStep(chain.NextStepID(), question, major, minor)
		for _, id := range st.Evidence {
			step.Evidence = append(step.Evidence, sources[id])
		}
		f.validator.Validate(step)
		chain.AddStep(step)
		logStep(log, step)
	}

	chain.SetFinalConclusion(FinalSummary(chain))
	return chain, nil
}

func resolvePremise(chain *model.ReasoningChain, text, from string) (*model.Proposition, error) {
	switch {
	case text != "":
		return model.ParseProposition(text)
	case from != "":
		return chain.GetProvenPremise(from), nil
	default:
		return nil, nil
	}
}
