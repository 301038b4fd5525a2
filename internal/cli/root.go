package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/logger"
	"github.com/ppiankov/syllogix/internal/model"
)

// Version is overridden at build time with -ldflags "-X .../cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	logJSON bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "syllogix",
	Short: "Syllogix - categorical syllogism validator and reasoning ledger",
	Long: `Syllogix checks whether a pair of categorical premises forms one of the
classical valid moods and records every step, valid or not, in an auditable
reasoning chain.

A language model may author candidate propositions; it never decides validity.
Validity is decided by a fixed table of moods and figures.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Initialize(viper.GetBool("output.json_logs"), viper.GetBool("output.verbose"))
	},
}

// Execute runs the root command
func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "syllogix %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.syllogix/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.json_logs", rootCmd.PersistentFlags().Lookup("log-json"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".syllogix"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// SYLLOGIX_LLM_PROVIDER maps to llm.provider
	viper.SetEnvPrefix("SYLLOGIX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindEnvKeys(model.DefaultConfig())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnvKeys registers every config key so AutomaticEnv sees keys absent
// from the config file; viper only consults the environment for known keys.
func bindEnvKeys(cfg *model.Config) {
	keys := []string{
		"llm.provider", "llm.model", "llm.api_key", "llm.base_url", "llm.timeout",
		"llm.max_retries", "llm.retry_backoff", "llm.temperature", "llm.max_tokens",
		"llm.http_proxy", "llm.https_proxy", "llm.no_proxy",
		"cache.enabled", "cache.ttl", "cache.max_entries", "cache.dir", "cache.disk_ttl",
		"concurrency.workers",
		"rate_limiting.requests_per_second", "rate_limiting.burst_size",
	}
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
}

// loadConfig merges defaults, config file, environment and bound flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, errors.WithHint(
			errors.Mark(errors.Wrap(err, "decode configuration"), errors.ErrInvalidConfig),
			"run 'syllogix config show' to inspect the effective configuration",
		)
	}
	return cfg, nil
}
