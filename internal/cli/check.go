package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/model"
	"github.com/ppiankov/syllogix/internal/pipeline"
	"github.com/ppiankov/syllogix/internal/validate"
)

var (
	checkMajor    string
	checkMinor    string
	checkQuestion string
	checkScript   string
	checkMD       string
)

// checkCmd validates premises without any language model
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a syllogism or an offline script",
	Long: `Check validates premises written as text, with no language model involved.

A single pair:
  syllogix check --major "All men are mortal" --minor "All Greeks are men"

A YAML script whose steps may reuse earlier conclusions:
  syllogix check -f whales.yaml --md whales.md

An invalid syllogism is reported in the transcript, not as a failure.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkMajor, "major", "", "major premise, e.g. \"All men are mortal\"")
	checkCmd.Flags().StringVar(&checkMinor, "minor", "", "minor premise, e.g. \"All Greeks are men\"")
	checkCmd.Flags().StringVarP(&checkQuestion, "question", "q", "", "question recorded on the step")
	checkCmd.Flags().StringVarP(&checkScript, "file", "f", "", "YAML script to run instead of --major/--minor")
	checkCmd.Flags().StringVar(&checkMD, "md", "", "also write a Markdown report to this path")
	checkCmd.MarkFlagsMutuallyExclusive("file", "major")
	checkCmd.MarkFlagsMutuallyExclusive("file", "minor")
}

func runCheck(cmd *cobra.Command, args []string) error {
	var (
		chain *model.ReasoningChain
		err   error
	)
	if checkScript != "" {
		chain, err = checkFile(cmd.Context(), checkScript)
	} else {
		chain, err = checkPair(checkQuestion, checkMajor, checkMinor)
	}
	if err != nil {
		return err
	}
	return emitChain(cmd, chain, checkMD)
}

func checkFile(ctx context.Context, path string) (*model.ReasoningChain, error) {
	script, err := pipeline.LoadScript(path)
	if err != nil {
		return nil, err
	}
	return pipeline.NewFramework(nil, nil).RunScript(ctx, script)
}

// checkPair validates one syllogism; an empty premise is recorded as missing
func checkPair(question, majorText, minorText string) (*model.ReasoningChain, error) {
	if majorText == "" && minorText == "" {
		return nil, errors.WithHint(
			errors.Wrap(errors.ErrInvalidInput, "nothing to check"),
			"pass --major and --minor, or -f script.yaml",
		)
	}
	major, err := parseOptional(majorText)
	if err != nil {
		return nil, errors.Wrap(err, "major premise")
	}
	minor, err := parseOptional(minorText)
	if err != nil {
		return nil, errors.Wrap(err, "minor premise")
	}
	if question == "" {
		question = "Does the conclusion follow?"
	}

	chain := model.NewChain(question)
	chain.AddStep(validate.NewValidator().ValidatePremises(question, major, minor))
	chain.SetFinalConclusion(pipeline.FinalSummary(chain))
	return chain, nil
}

func parseOptional(text string) (*model.Proposition, error) {
	if text == "" {
		return nil, nil
	}
	return model.ParseProposition(text)
}

// emitChain prints the transcript and optionally writes the Markdown report
func emitChain(cmd *cobra.Command, chain *model.ReasoningChain, mdPath string) error {
	transcript, err := chain.Render()
	if err != nil {
		return errors.Wrap(err, "render transcript")
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), transcript)

	if mdPath != "" {
		if err := pipeline.WriteMarkdown(chain, mdPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Markdown report: %s\n", mdPath)
	}
	return nil
}
