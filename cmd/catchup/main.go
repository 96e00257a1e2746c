package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xaenox/discord-catchup/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	cfgPath string
	debug   bool

	// Command flags
	flagGuildID      string
	flagCreatePrompt bool
	flagSummarize    bool
	flagUseCache     bool
	flagMaxAge       int
	flagInteractive  bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catchup",
	Short: "Discord CLI tool for retrieving channel information and messages",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		zapCfg := zap.NewProductionConfig()
		if debug || cfg.Logging.Debug {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	threadCatchupCmd.Flags().StringVar(&flagGuildID, "guild-id", "", "Discord server (guild) ID")
	threadCatchupCmd.Flags().BoolVar(&flagCreatePrompt, "create-prompt", false, "create a prompt file for summarization")
	threadCatchupCmd.Flags().BoolVar(&flagSummarize, "summarize", false, "use an LLM to summarize the conversation")
	threadCatchupCmd.Flags().BoolVar(&flagUseCache, "use-cache", false, "use cached thread data if available")
	threadCatchupCmd.Flags().IntVar(&flagMaxAge, "max-age", 0, "only show threads updated within this many days")
	rootCmd.AddCommand(threadCatchupCmd)

	listChannelsCmd.Flags().StringVar(&flagGuildID, "guild-id", "", "Discord server (guild) ID")
	listChannelsCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "use interactive mode to select channels")
	_ = listChannelsCmd.MarkFlagRequired("guild-id")
	rootCmd.AddCommand(listChannelsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
