package pipeline

import (
	"context"
	"time"

	"github.com/MimeLyc/subtitle-batch-translator/internal/persistence"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

// Store persists run history and translated batches
type Store interface {
	StartRun(ctx context.Context, run persistence.Run) error
	FinishRun(ctx context.Context, run persistence.Run) error
	SaveRunFile(ctx context.Context, file persistence.RunFile) error
	GetBatch(ctx context.Context, key persistence.BatchKey) (string, bool, error)
	PutBatch(ctx context.Context, key persistence.BatchKey, translated string) error
	DeleteBatchesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// batchCache looks up translated batches by content for one language pair
type batchCache interface {
	Load(ctx context.Context, text string) (string, bool)
	Save(ctx context.Context, text, translated string)
}

type persistentBatchCache struct {
	store      Store
	sourceLang string
	targetLang string
	backend    string
}

func newBatchCache(store Store, sourceLang, targetLang, backend string) batchCache {
	if store == nil {
		return nopBatchCache{}
	}
	return &persistentBatchCache{
		store:      store,
		sourceLang: sourceLang,
		targetLang: targetLang,
		backend:    backend,
	}
}

func (c *persistentBatchCache) key(text string) persistence.BatchKey {
	return persistence.BatchKey{
		ContentHash: persistence.HashBatch(text),
		SourceLang:  c.sourceLang,
		TargetLang:  c.targetLang,
		Backend:     c.backend,
	}
}

// Load treats store failures as misses
func (c *persistentBatchCache) Load(ctx context.Context, text string) (string, bool) {
	translated, ok, err := c.store.GetBatch(ctx, c.key(text))
	if err != nil {
		log.Warn("Batch cache lookup failed: %v", err)
		return "", false
	}
	return translated, ok
}

func (c *persistentBatchCache) Save(ctx context.Context, text, translated string) {
	if err := c.store.PutBatch(ctx, c.key(text), translated); err != nil {
		log.Warn("Failed to cache translated batch: %v", err)
	}
}

type nopBatchCache struct{}

func (nopBatchCache) Load(context.Context, string) (string, bool) { return "", false }
func (nopBatchCache) Save(context.Context, string, string)        {}
