package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/llm"
	"github.com/ppiankov/syllogix/internal/logger"
	"github.com/ppiankov/syllogix/internal/model"
	"github.com/ppiankov/syllogix/internal/pipeline"
)

var (
	reasonMD    string
	timeout     time.Duration
	noCache     bool
	llmProvider string
	llmModel    string
)

// reasonCmd represents the reason command
var reasonCmd = &cobra.Command{
	Use:   "reason <query>",
	Short: "Build a reasoning chain for a question with a language model",
	Long: `Reason asks the configured language model to analyse the question,
gather evidence and state categorical propositions. Every syllogism is then
checked against the mood table and recorded in the chain, valid or not.

Example:
  syllogix reason "Is Socrates mortal?" --llm-provider openai
  syllogix reason "Are whales fish?" --llm-provider ollama --llm-model llama3.1 --md whales.md`,
	Args: cobra.ExactArgs(1),
	RunE: runReason,
}

func init() {
	rootCmd.AddCommand(reasonCmd)

	reasonCmd.Flags().StringVar(&reasonMD, "md", "", "also write a Markdown report to this path")
	addLLMFlags(reasonCmd)
	reasonCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall timeout for the query")
}

// addLLMFlags registers the flags that override llm.* and cache.* settings
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", fmt.Sprintf("LLM provider %v (overrides llm.provider)", llm.SupportedProviders()))
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (overrides llm.model)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the LLM response cache")
}

// configWithFlags loads the configuration and applies flags that were set explicitly
func configWithFlags(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

func runReason(cmd *cobra.Command, args []string) error {
	query := args[0]
	cfg, err := configWithFlags(cmd)
	if err != nil {
		return err
	}

	framework, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	if !framework.LLMEnabled() {
		return errors.WithHint(
			errors.Wrap(llm.ErrProviderDisabled, "reason"),
			"set --llm-provider or llm.provider; use 'syllogix check' to validate premises offline",
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log := logger.Named("cli")
	log.Infow("Reasoning", logger.FieldQuery, query, logger.FieldProvider, cfg.LLM.Provider)

	start := time.Now()
	chain, err := framework.Reason(ctx, query)
	if err != nil {
		return errors.Wrap(err, "reason")
	}
	log.Debugw("Chain complete",
		logger.FieldChainID, chain.ID,
		logger.FieldCount, len(chain.Steps),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)

	if err := emitChain(cmd, chain, reasonMD); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %d steps in %v\n", len(chain.Steps), time.Since(start).Round(time.Millisecond))
	}
	return nil
}
