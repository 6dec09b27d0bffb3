package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MimeLyc/subtitle-batch-translator/internal/config"
	"github.com/MimeLyc/subtitle-batch-translator/internal/persistence"
	"github.com/MimeLyc/subtitle-batch-translator/internal/pipeline"
	"github.com/MimeLyc/subtitle-batch-translator/internal/translator"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

// errFilesFailed is returned by run when the report has failed files; the
// report already says which, so main only sets the exit status.
var errFilesFailed = errors.New("one or more files failed")

type rootFlags struct {
	configPath string
	envFile    string
	logLevel   string

	sourceLang  string
	targetLang  string
	inputDir    string
	outputDir   string
	tempDir     string
	extension   string
	encoding    string
	separator   string
	lengthLimit int
	backend     string
	alignment   string
	workers     int
	failFast    bool
	noCache     bool
	dbPath      string

	changed func(name string) bool
}

func (f *rootFlags) set(name string) bool {
	return f.changed != nil && f.changed(name)
}

// options turns explicitly passed flags into config overrides
func (f *rootFlags) options() []config.Option {
	var opts []config.Option
	str := func(name, value string, dst func(*config.Config) *string) {
		if f.set(name) {
			opts = append(opts, func(c *config.Config) { *dst(c) = value })
		}
	}
	str("source", f.sourceLang, func(c *config.Config) *string { return &c.Translate.SourceLang })
	str("target", f.targetLang, func(c *config.Config) *string { return &c.Translate.TargetLang })
	str("input", f.inputDir, func(c *config.Config) *string { return &c.Paths.InputDir })
	str("output", f.outputDir, func(c *config.Config) *string { return &c.Paths.OutputDir })
	str("temp", f.tempDir, func(c *config.Config) *string { return &c.Paths.TempDir })
	str("ext", f.extension, func(c *config.Config) *string { return &c.Paths.FileExtension })
	str("encoding", f.encoding, func(c *config.Config) *string { return &c.Paths.Encoding })
	str("separator", f.separator, func(c *config.Config) *string { return &c.Batch.Separator })
	str("backend", f.backend, func(c *config.Config) *string { return &c.Translate.Backend })
	str("alignment", f.alignment, func(c *config.Config) *string { return &c.Translate.Alignment })
	str("db", f.dbPath, func(c *config.Config) *string { return &c.State.DBPath })
	str("log-level", f.logLevel, func(c *config.Config) *string { return &c.Log.Level })

	if f.set("limit") {
		limit := f.lengthLimit
		opts = append(opts, func(c *config.Config) { c.Batch.LengthLimit = limit })
	}
	if f.set("workers") {
		workers := f.workers
		opts = append(opts, func(c *config.Config) { c.Translate.Workers = workers })
	}
	if f.set("fail-fast") {
		failFast := f.failFast
		opts = append(opts, func(c *config.Config) { c.Translate.FailFast = failFast })
	}
	if f.set("no-cache") && f.noCache {
		opts = append(opts, func(c *config.Config) { c.State.Cache = false })
	}
	return opts
}

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	fileLogger *log.FileLogger
	store      *persistence.SQLiteStore
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(
			strings.TrimSpace(c.flags.configPath),
			strings.TrimSpace(c.flags.envFile),
			c.flags.options()...,
		)
		if err != nil {
			c.configErr = pipeline.NewErrorWithCause(pipeline.ErrConfig, "invalid configuration", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) setupLogging() error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	level := log.ParseLevel(cfg.Log.Level)
	log.InitLogger(level)
	if cfg.Log.File == "" {
		return nil
	}
	fileLogger, err := log.NewFileLogger(cfg.Log.File, level)
	if err != nil {
		return err
	}
	c.fileLogger = fileLogger
	log.SetLogger(fileLogger.Logger)
	return nil
}

// openStore opens the state database once per command
func (c *commandContext) openStore() (*persistence.SQLiteStore, error) {
	if c.store != nil {
		return c.store, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := persistence.NewSQLiteStore(cfg.State.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database %s: %w", cfg.State.DBPath, err)
	}
	c.store = store
	return store, nil
}

// newDriver builds the pipeline. Without a usable state database the run
// still goes ahead, just without history and cache.
func (c *commandContext) newDriver() (*pipeline.Driver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	tr, err := translator.New(cfg.TranslatorOptions())
	if err != nil {
		return nil, pipeline.NewErrorWithCause(pipeline.ErrConfig, "failed to create translator", err)
	}

	var store pipeline.Store
	if s, err := c.openStore(); err != nil {
		log.Warn("Run history and batch cache disabled: %v", err)
	} else {
		store = s
	}
	return pipeline.NewDriver(opts, tr, store), nil
}

func (c *commandContext) close() {
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			log.Warn("Failed to close state database: %v", err)
		}
		c.store = nil
	}
	if c.fileLogger != nil {
		_ = c.fileLogger.Close()
		c.fileLogger = nil
	}
}
