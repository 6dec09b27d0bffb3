package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "subbatch",
		Short:         "Batch-translate subtitle files through a translation backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags.changed = cmd.Flags().Changed
			return ctx.setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (.toml, .yaml or .yml)")
	pf.StringVar(&flags.envFile, "env-file", "", "Env file to load (default .env when present)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&flags.sourceLang, "source", "", "Source language code, or auto")
	pf.StringVar(&flags.targetLang, "target", "", "Target language code")
	pf.StringVar(&flags.inputDir, "input", "", "Input directory")
	pf.StringVar(&flags.outputDir, "output", "", "Output directory")
	pf.StringVar(&flags.tempDir, "temp", "", "Scratch directory, removed after each run")
	pf.StringVar(&flags.extension, "ext", "", "Caption file extension")
	pf.StringVar(&flags.encoding, "encoding", "", "Caption file text encoding")
	pf.StringVar(&flags.separator, "separator", "", "Separator line placed between captions in a batch")
	pf.IntVar(&flags.lengthLimit, "limit", 0, "Maximum characters per batch")
	pf.StringVar(&flags.backend, "backend", "", "Translation backend: google, llm or echo")
	pf.StringVar(&flags.alignment, "alignment", "", "Segment count mismatch policy: strict or lenient")
	pf.IntVar(&flags.workers, "workers", 0, "Files translated in parallel")
	pf.BoolVar(&flags.failFast, "fail-fast", false, "Stop the run at the first failing file")
	pf.BoolVar(&flags.noCache, "no-cache", false, "Do not reuse or store translated batches")
	pf.StringVar(&flags.dbPath, "db", "", "Run history and cache database path")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newScheduleCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
