package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/llm"
	"github.com/ppiankov/syllogix/internal/pipeline"
	"github.com/ppiankov/syllogix/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Reason over many questions from a file in parallel",
	Long: `Batch reads one question per line (blank lines, # comments and
duplicates are skipped) and reasons over each on its own chain.

For every question a transcript (.txt) and a Markdown report (.md) are
written to the output directory.

Example:
  syllogix batch questions.txt
  syllogix batch questions.txt --concurrency 8 --output-dir ./chains`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, fmt.Sprintf("number of concurrent workers (default: concurrency.workers, else %d)", runtime.NumCPU()))
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./syllogix-chains", "output directory for transcripts")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	addLLMFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	cfg, err := configWithFlags(cmd)
	if err != nil {
		return err
	}

	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	framework, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	if !framework.LLMEnabled() {
		return errors.WithHint(
			errors.Wrap(llm.ErrProviderDisabled, "batch"),
			"set --llm-provider or llm.provider",
		)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Syllogix Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(framework, workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return errors.Wrap(err, "process file")
	}

	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Query, result.Error)
			continue
		}
		base := filepath.Join(outputDir, fmt.Sprintf("%03d-%s", result.Index+1, sanitizeFilename(result.Query)))
		if err := writeChain(result, base); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Query, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s (%d steps, %v)\n", result.Query, len(result.Chain.Steps), result.Duration.Round(time.Millisecond))
	}

	succeeded := worker.Succeeded(results)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d questions\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", succeeded)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", len(results)-succeeded)
	if slowest := worker.SortByDuration(results); len(slowest) > 0 {
		fmt.Fprintf(os.Stderr, "  Slowest:   %v (%s)\n", slowest[0].Duration.Round(time.Millisecond), slowest[0].Query)
	}
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// writeChain writes base.txt (transcript) and base.md (report)
func writeChain(result *worker.QueryResult, base string) error {
	transcript, err := result.Chain.Render()
	if err != nil {
		return errors.Wrap(err, "render transcript")
	}
	if err := os.WriteFile(base+".txt", []byte(transcript), 0o644); err != nil {
		return errors.Wrap(err, "write transcript")
	}
	return pipeline.WriteMarkdown(result.Chain, base+".md")
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "",
	"\"", "",
	"'", "",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename turns a question into a short file name
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	s = strings.Trim(s, "-_.")
	if len(s) > 80 {
		s = s[:80]
	}
	if s == "" {
		s = "query"
	}
	return s
}
