package worker

import (
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	holmes "github.com/msg-systems/holmes-extractor-sub002"
	"github.com/msg-systems/holmes-extractor-sub002/model"
)

// CorpusMatcher fans corpus matching out over a worker pool, one task per
// document. The manager's matching path is read-only, so the per-document
// tasks run in parallel without further coordination; only result collection
// is locked.
type CorpusMatcher struct {
	manager *holmes.Manager
	pool    *ants.Pool
}

// Option configures a CorpusMatcher.
type Option func(*CorpusMatcher) error

// WithPoolSize sets the worker pool size for concurrent matching.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(w *CorpusMatcher) error {
		if size < 1 {
			size = 1
		}
		if w.pool != nil {
			w.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		w.pool = pool
		return nil
	}
}

// NewCorpusMatcher creates a corpus matcher over the given manager.
func NewCorpusMatcher(manager *holmes.Manager, opts ...Option) (*CorpusMatcher, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	w := &CorpusMatcher{
		manager: manager,
		pool:    pool,
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			w.pool.Release()
			return nil, err
		}
	}
	return w, nil
}

// MatchAll matches every registered search phrase against every registered
// document, fanning the per-document work out over the pool. The merged
// result carries the same ordering guarantees as the sequential path.
func (w *CorpusMatcher) MatchAll() ([]*model.Match, error) {
	labels := w.manager.DocumentLabels()

	var (
		mu       sync.Mutex
		matches  []*model.Match
		firstErr error
		wg       sync.WaitGroup
	)
	for _, label := range labels {
		label := label
		wg.Add(1)
		err := w.pool.Submit(func() {
			defer wg.Done()
			documentMatches, err := w.manager.MatchDocument(label)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// A document may have been withdrawn between listing
				// and matching; keep the first real error.
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			matches = append(matches, documentMatches...)
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	model.SortMatches(matches)
	return matches, nil
}

// Release shuts the worker pool down.
func (w *CorpusMatcher) Release() {
	w.pool.Release()
}
