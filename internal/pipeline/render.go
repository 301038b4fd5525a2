package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/model"
)

// RenderMarkdown formats a chain as a markdown report for humans.
// It is diagnostic output, not an interchange format.
func RenderMarkdown(chain *model.ReasoningChain) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Reasoning Chain\n\n")
	fmt.Fprintf(&b, "**Query:** %s\n\n", chain.MainQuery)
	fmt.Fprintf(&b, "**Chain ID:** `%s`\n\n", chain.ID)

	if len(chain.Steps) == 0 {
		b.WriteString("_No steps recorded._\n\n")
	}

	for _, step := range chain.Steps {
		status := "❌ invalid"
		if step.IsValid {
			status = "✅ valid"
		}
		fmt.Fprintf(&b, "## Step %d: %s\n\n", step.StepID, step.Question)
		fmt.Fprintf(&b, "| Type | Mood | Status | Confidence |\n")
		fmt.Fprintf(&b, "|------|------|--------|------------|\n")
		fmt.Fprintf(&b, "| %s | %s | %s | %.1f%% |\n\n", step.ReasoningType, moodName(step), status, step.Confidence*100)

		if syl := step.Syllogism; syl != nil {
			for _, line := range []struct {
				label string
				prop  *model.Proposition
			}{
				{"Major premise", syl.MajorPremise},
				{"Minor premise", syl.MinorPremise},
				{"Conclusion", syl.Conclusion},
			} {
				text, err := renderOrNone(line.prop)
				if err != nil {
					return "", errors.Wrapf(err, "step %d %s", step.StepID, strings.ToLower(line.label))
				}
				fmt.Fprintf(&b, "- **%s:** %s\n", line.label, text)
			}
			b.WriteString("\n")
		}

		if step.Summary != "" {
			fmt.Fprintf(&b, "> %s\n\n", step.Summary)
		}

		if len(step.Evidence) > 0 {
			b.WriteString("**Evidence:**\n\n")
			for _, src := range step.Evidence {
				if src.URL != "" {
					fmt.Fprintf(&b, "- `%s` %s ([source](%s))\n", src.SourceID, src.Text, src.URL)
				} else {
					fmt.Fprintf(&b, "- `%s` %s\n", src.SourceID, src.Text)
				}
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Final Conclusion\n\n")
	if chain.FinalConclusionSummary != nil {
		fmt.Fprintf(&b, "%s\n", *chain.FinalConclusionSummary)
	} else {
		b.WriteString("None\n")
	}

	return b.String(), nil
}

// WriteMarkdown renders chain to path
func WriteMarkdown(chain *model.ReasoningChain, path string) error {
	md, err := RenderMarkdown(chain)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return errors.Wrap(err, "write markdown")
	}
	return nil
}

func moodName(step *model.ReasoningStep) string {
	if step.Mood == nil {
		return "None"
	}
	return step.Mood.String()
}

func renderOrNone(p *model.Proposition) (string, error) {
	if p == nil {
		return "None", nil
	}
	return p.Render()
}
