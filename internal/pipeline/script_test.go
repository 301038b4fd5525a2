package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/model"
	"github.com/ppiankov/syllogix/internal/validate"
)

const whalesScript = `
query: Are whales fish?
evidence:
  - source_id: E1
    text: No mammals are fish
  - source_id: E2
    text: All whales are mammals
    url: https://example.org/whales
steps:
  - question: Are whales fish?
    major: No mammals are fish
    minor: All whales are mammals
    evidence: [E1, E2]
  - question: Are any sea creatures fish?
    major_from: whales
    minor: Some sea creatures are whales.
  - question: What about unicorns?
    major_from: unicorns
    minor: All horses are animals
`

func TestRunScript(t *testing.T) {
	s, err := ParseScript([]byte(whalesScript))
	require.NoError(t, err)

	chain, err := NewFramework(nil, nil).RunScript(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, chain.Steps, 3)

	first := chain.Steps[0]
	assert.True(t, first.IsValid)
	assert.Equal(t, model.MoodCelarent, *first.Mood)
	assert.Equal(t, "No whales are fish", first.Conclusion().String())
	assert.Equal(t, []string{"E1", "E2"}, first.SourceIDs())
	assert.Equal(t, "https://example.org/whales", first.Evidence[1].URL)

	// major resolved from step 1's conclusion by subject
	second := chain.Steps[1]
	assert.Same(t, first.Conclusion(), second.Syllogism.MajorPremise)
	assert.True(t, second.IsValid)
	assert.Equal(t, model.MoodFerio, *second.Mood)
	assert.Equal(t, "Some sea creatures are not fish", second.Conclusion().String())

	// nothing proven about unicorns
	third := chain.Steps[2]
	assert.False(t, third.IsValid)
	assert.Nil(t, third.Syllogism.MajorPremise)
	assert.Equal(t, validate.MarkerMissingPremises, third.Summary)

	require.NotNil(t, chain.FinalConclusionSummary)
	assert.Equal(t, "Therefore, Some sea creatures are not fish (Ferio).", *chain.FinalConclusionSummary)
}

func TestRunScript_BadPropositionText(t *testing.T) {
	s := &Script{Query: "q", Steps: []ScriptStep{{Major: "Most men are tall", Minor: "All a are b"}}}

	_, err := NewFramework(nil, nil).RunScript(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidProposition))
	assert.Contains(t, err.Error(), "step 1 major")
}

func TestParseScript_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no query", "steps: [{major: All a are b}]", "query is required"},
		{"no steps", "query: q", "at least one step"},
		{"both major forms", "query: q\nsteps: [{major: All a are b, major_from: a}]", "both major and major_from"},
		{"both minor forms", "query: q\nsteps: [{minor: All a are b, minor_from: a}]", "both minor and minor_from"},
		{"unknown evidence", "query: q\nsteps: [{major: All a are b, evidence: [E9]}]", "unknown evidence E9"},
		{"evidence without id", "query: q\nevidence: [{text: x}]\nsteps: [{major: All a are b}]", "source_id"},
		{"not yaml", "query: [", "parse script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.IsInvalidInput(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whales.yaml")
	require.NoError(t, os.WriteFile(path, []byte(whalesScript), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, "Are whales fish?", s.Query)
	assert.Len(t, s.Steps, 3)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
