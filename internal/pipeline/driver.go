package pipeline

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
	"github.com/MimeLyc/subtitle-batch-translator/internal/config"
	"github.com/MimeLyc/subtitle-batch-translator/internal/persistence"
	"github.com/MimeLyc/subtitle-batch-translator/internal/scratch"
	"github.com/MimeLyc/subtitle-batch-translator/internal/subtitle"
	"github.com/MimeLyc/subtitle-batch-translator/internal/translator"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/file"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

// Options is everything a run needs besides its collaborators
type Options struct {
	SourceLang    string // language tag or config.AutoLanguage
	TargetLang    string
	Encoding      string
	InputDir      string
	OutputDir     string
	TempDir       string
	FileExtension string
	Separator     string
	LengthLimit   int
	Alignment     batch.Policy
	Workers       int
	FailFast      bool
	Cache         bool
	CacheTTL      time.Duration // cached batches older than this are pruned; 0 disables pruning
}

func OptionsFromConfig(cfg *config.Config) (Options, error) {
	policy, err := batch.ParsePolicy(cfg.Translate.Alignment)
	if err != nil {
		return Options{}, NewErrorWithCause(ErrConfig, "invalid alignment policy", err)
	}
	return Options{
		SourceLang:    cfg.Translate.SourceLang,
		TargetLang:    cfg.Translate.TargetLang,
		Encoding:      cfg.Paths.Encoding,
		InputDir:      cfg.Paths.InputDir,
		OutputDir:     cfg.Paths.OutputDir,
		TempDir:       cfg.Paths.TempDir,
		FileExtension: cfg.Paths.FileExtension,
		Separator:     cfg.Batch.Separator,
		LengthLimit:   cfg.Batch.LengthLimit,
		Alignment:     policy,
		Workers:       cfg.Translate.Workers,
		FailFast:      cfg.Translate.FailFast,
		Cache:         cfg.State.Cache,
		CacheTTL:      time.Duration(cfg.State.CacheTTLDays) * 24 * time.Hour,
	}, nil
}

// Driver translates every caption file of an input directory
type Driver struct {
	opts       Options
	reader     subtitle.Reader
	writer     subtitle.Writer
	translator translator.Translator
	store      Store
}

// NewDriver wires a driver. store may be nil, which disables run history
// and the batch cache.
func NewDriver(opts Options, tr translator.Translator, store Store) *Driver {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Alignment == "" {
		opts.Alignment = batch.PolicyStrict
	}
	return &Driver{
		opts:       opts,
		reader:     subtitle.NewReader(opts.Encoding),
		writer:     subtitle.NewWriter(opts.Encoding),
		translator: tr,
		store:      store,
	}
}

// Run processes all input files. Input discovery and directory setup
// failures abort the run. A failing file is recorded in the report and the
// remaining files still run, unless FailFast is set, in which case the first
// file error cancels the rest and is returned alongside the partial report.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:      uuid.NewString(),
		SourceLang: d.opts.SourceLang,
		TargetLang: d.opts.TargetLang,
		Backend:    d.translator.BackendName(),
		StartedAt:  time.Now(),
	}

	paths, err := file.ListByExt(d.opts.InputDir, d.opts.FileExtension)
	if err != nil {
		return nil, NewErrorWithCause(ErrDiscovery, "failed to list input files", err).
			WithContext("dir", d.opts.InputDir)
	}
	log.Info("Found %d %s files in %s", len(paths), d.opts.FileExtension, d.opts.InputDir)

	if err := os.MkdirAll(d.opts.OutputDir, 0o755); err != nil {
		return nil, NewErrorWithCause(ErrWrite, "failed to create output directory", err).
			WithContext("dir", d.opts.OutputDir)
	}

	scratchDir, err := scratch.Open(d.opts.TempDir)
	if err != nil {
		return nil, NewErrorWithCause(ErrWrite, "failed to prepare temp directory", err).
			WithContext("dir", d.opts.TempDir)
	}
	log.Debug("Batch files go to %s", scratchDir.Path())
	defer func() {
		if err := scratchDir.Cleanup(); err != nil {
			log.Warn("Failed to clean up temp directory: %v", err)
		}
	}()

	d.startRun(ctx, report)
	d.pruneCache(ctx)

	report.Files = make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if gctx.Err() != nil {
				report.Files[i] = FileResult{Position: i, InputPath: path, Status: FileSkipped, Err: gctx.Err()}
				return nil
			}

			var res FileResult
			if err := SafeExecute(func() error {
				res = d.processFile(gctx, scratchDir, i, path)
				return nil
			}); err != nil {
				log.Error("Failed to translate %s: %v", path, err)
				res = FileResult{Position: i, InputPath: path, Status: FileFailed, Err: err}
			}
			report.Files[i] = res
			d.saveRunFile(ctx, report.RunID, res)

			if res.Err != nil && d.opts.FailFast {
				return res.Err
			}
			return nil
		})
	}
	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	report.FinishedAt = time.Now()
	d.finishRun(ctx, report, runErr)

	log.Info("Run %s finished: %d succeeded, %d failed, %d skipped",
		report.RunID, report.Succeeded(), report.Failed(), report.Skipped())
	return report, runErr
}

// processFile never returns an error; failures are reported in the result
func (d *Driver) processFile(ctx context.Context, dir *scratch.Dir, position int, path string) (res FileResult) {
	start := time.Now()
	res = FileResult{Position: position, InputPath: path, Status: FileFailed}
	defer func() {
		res.Duration = time.Since(start)
		if res.Err != nil {
			log.Error("Failed to translate %s: %v", path, res.Err)
		}
	}()

	sub, err := d.reader.Read(path)
	if err != nil {
		res.Err = NewErrorWithCause(ErrParse, "failed to read caption file", err).WithContext("file", path)
		return
	}

	sourceLang := d.sourceLang(sub)
	res.SourceLang = sourceLang

	texts := sub.Texts()
	batches := batch.Make(texts, batch.Options{Separator: d.opts.Separator, Limit: d.opts.LengthLimit})
	res.Units = len(texts)
	res.Batches = len(batches)
	log.Info("Translating %s (%d lines in %d batches, %s -> %s)",
		path, len(texts), len(batches), sourceLang, d.opts.TargetLang)

	cache := d.batchCache(sourceLang)
	blobs := make([]string, len(batches))

	// one scratch file per batch, removed once its translation is in hand
	batchFiles := make([]string, len(batches))
	for i, b := range batches {
		name, err := dir.WriteBatch(b.Text)
		if err != nil {
			res.Err = NewErrorWithCause(ErrWrite, "failed to write batch file", err).
				WithContext("file", path).WithContext("batch", b.Index)
			return
		}
		batchFiles[i] = name
	}

	for i, b := range batches {
		if translated, ok := cache.Load(ctx, b.Text); ok {
			log.Debug("Batch %d of %s served from cache", b.Index, path)
			blobs[i] = translated
			res.CachedBatches++
			_ = dir.Remove(batchFiles[i])
			continue
		}

		translated, err := d.translator.TranslateFile(ctx, batchFiles[i], sourceLang, d.opts.TargetLang)
		if err != nil {
			res.Err = NewErrorWithCause(ErrTranslation, "failed to translate batch", err).
				WithContext("file", path).WithContext("batch", b.Index)
			return
		}
		blobs[i] = translated
		if err := dir.Remove(batchFiles[i]); err != nil {
			log.Warn("%v", err)
		}
		log.Debug("Batch %d/%d of %s translated (%d chars)", b.Index+1, len(batches), path, b.Length)
	}

	result, err := batch.Reassemble(texts, batches, blobs, d.opts.Separator, d.opts.Alignment)
	if err != nil {
		res.Err = NewErrorWithCause(ErrAlignment, "translated text does not line up with the captions", err).
			WithContext("file", path)
		return
	}
	for _, m := range result.Mismatches {
		log.Warn("%s: %v; untranslated lines kept as-is", path, m)
	}
	res.Mismatches = result.Mismatches

	// only batches that lined up are worth reusing
	for i, b := range batches {
		if !mismatched(result.Mismatches, b.Index) {
			cache.Save(ctx, b.Text, blobs[i])
		}
	}

	out := sub.Clone()
	for i := range out.Lines {
		out.Lines[i].Text = result.Texts[i]
	}
	if tag, err := language.Parse(d.opts.TargetLang); err == nil {
		out.Language = tag
	}

	outputPath := file.TranslatedPath(d.opts.OutputDir, path, d.opts.TargetLang)
	if err := d.writer.Write(outputPath, out); err != nil {
		res.Err = NewErrorWithCause(ErrWrite, "failed to write translated file", err).
			WithContext("file", outputPath)
		return
	}

	res.OutputPath = outputPath
	res.Status = FileSuccess
	log.Info("Wrote %s", outputPath)
	return
}

// sourceLang resolves "auto" to the language detected in the file when
// detection was reliable; backends that understand "auto" get it otherwise.
func (d *Driver) sourceLang(sub *subtitle.File) string {
	if !strings.EqualFold(d.opts.SourceLang, config.AutoLanguage) {
		return d.opts.SourceLang
	}
	if sub.Language != language.Und {
		return sub.Language.String()
	}
	return config.AutoLanguage
}

func (d *Driver) batchCache(sourceLang string) batchCache {
	if !d.opts.Cache {
		return nopBatchCache{}
	}
	return newBatchCache(d.store, sourceLang, d.opts.TargetLang, d.translator.BackendName())
}

// pruneCache drops batches nobody has refreshed within the TTL
func (d *Driver) pruneCache(ctx context.Context) {
	if d.store == nil || !d.opts.Cache || d.opts.CacheTTL <= 0 {
		return
	}
	n, err := d.store.DeleteBatchesBefore(ctx, time.Now().Add(-d.opts.CacheTTL))
	if err != nil {
		log.Warn("Failed to prune batch cache: %v", err)
		return
	}
	if n > 0 {
		log.Info("Pruned %d cached batches older than %s", n, d.opts.CacheTTL)
	}
}

func mismatched(mismatches []*batch.AlignmentError, index int) bool {
	for _, m := range mismatches {
		if m.Batch == index {
			return true
		}
	}
	return false
}

func (d *Driver) startRun(ctx context.Context, report *Report) {
	if d.store == nil {
		return
	}
	err := d.store.StartRun(ctx, persistence.Run{
		ID:         report.RunID,
		InputDir:   d.opts.InputDir,
		OutputDir:  d.opts.OutputDir,
		SourceLang: report.SourceLang,
		TargetLang: report.TargetLang,
		Backend:    report.Backend,
		Status:     persistence.RunRunning,
		StartedAt:  report.StartedAt,
	})
	if err != nil {
		log.Warn("Failed to record run start: %v", err)
	}
}

func (d *Driver) saveRunFile(ctx context.Context, runID string, res FileResult) {
	if d.store == nil {
		return
	}
	errText := ""
	if res.Err != nil {
		errText = res.Err.Error()
	}
	err := d.store.SaveRunFile(context.WithoutCancel(ctx), persistence.RunFile{
		RunID:         runID,
		Position:      res.Position,
		InputPath:     res.InputPath,
		OutputPath:    res.OutputPath,
		Units:         res.Units,
		Batches:       res.Batches,
		CachedBatches: res.CachedBatches,
		Status:        string(res.Status),
		Error:         errText,
		Duration:      res.Duration,
	})
	if err != nil {
		log.Warn("Failed to record result of %s: %v", res.InputPath, err)
	}
}

func (d *Driver) finishRun(ctx context.Context, report *Report, runErr error) {
	if d.store == nil {
		return
	}
	run := persistence.Run{
		ID:          report.RunID,
		Status:      report.Status(),
		FilesTotal:  len(report.Files),
		FilesFailed: report.Failed(),
		FinishedAt:  report.FinishedAt,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := d.store.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		log.Warn("Failed to record run result: %v", err)
	}
}
