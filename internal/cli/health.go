package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/llm"
	"github.com/ppiankov/syllogix/internal/pipeline"
)

var healthTimeout time.Duration

// healthCmd probes the configured provider
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the configured LLM provider answers structured requests",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (overrides llm.provider)")
	healthCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (overrides llm.model)")
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", 30*time.Second, "probe timeout")
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := configWithFlags(cmd)
	if err != nil {
		return err
	}
	// a cached answer would hide an outage
	cfg.Cache.Enabled = false

	structurer, err := pipeline.NewStructurer(cfg)
	if err != nil {
		return err
	}
	if !structurer.IsEnabled() {
		return errors.WithHint(
			errors.Wrap(llm.ErrProviderDisabled, "health"),
			"set --llm-provider or llm.provider",
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	out := cmd.OutOrStdout()
	if !structurer.Available(ctx) {
		_, _ = fmt.Fprintf(out, "✗ %s: not reachable or not authorised\n", structurer.ProviderName())
		return errors.Mark(errors.Newf("provider %s is unavailable", structurer.ProviderName()), errors.ErrServiceUnavailable)
	}

	status := llm.NewHealthMonitor().Check(ctx, structurer)
	if !status.Healthy() {
		_, _ = fmt.Fprintf(out, "✗ %s: %s\n", status.Provider, status.Error)
		return errors.Mark(errors.Newf("provider %s is unhealthy", status.Provider), errors.ErrServiceUnavailable)
	}
	_, _ = fmt.Fprintf(out, "✓ %s: %s (%v)\n", status.Provider, status.Status, status.Latency.Round(time.Millisecond))
	if models := llm.SupportedModels(status.Provider); len(models) > 0 {
		_, _ = fmt.Fprintf(out, "  known models: %s\n", strings.Join(models, ", "))
	}
	return nil
}
