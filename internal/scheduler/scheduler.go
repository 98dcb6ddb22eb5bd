// Package scheduler fills the translation side of a document store
// asynchronously. A bounded pool of workers performs the blocking provider
// calls; results are funneled through a single gate that drops anything
// belonging to a superseded document load, so a slow translation can never
// leak into the next document.
package scheduler

import (
	"context"
	"sync"

	"codeberg.org/snonux/biread/internal/document"
	"codeberg.org/snonux/biread/internal/translate"
)

// DefaultWorkers is the worker pool size used when none is configured.
const DefaultWorkers = 4

// Scheduler drives translation runs against the current document store.
type Scheduler struct {
	provider translate.Provider
	workers  int

	// startMu serializes Run calls so two runs can never interleave
	// between draining the old one and starting the new one.
	startMu sync.Mutex

	mu      sync.Mutex
	store   *document.Store
	gen     int64
	seq     int64
	cancel  context.CancelFunc
	runDone chan struct{}

	// Callbacks for UI updates
	onProgress func(done, total int)
	onFinished func()
}

// New creates a scheduler translating through the given provider.
func New(provider translate.Provider, workers int) *Scheduler {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Scheduler{
		provider: provider,
		workers:  workers,
	}
}

// SetCallbacks sets the callback functions for progress updates. Callbacks
// are invoked from worker goroutines; UI code must marshal onto its own
// thread.
func (s *Scheduler) SetCallbacks(onProgress func(done, total int), onFinished func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onProgress = onProgress
	s.onFinished = onFinished
}

// SetProvider swaps the translation provider used by subsequent runs.
func (s *Scheduler) SetProvider(p translate.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
}

// SetStore makes store the current document, superseding the previous one.
// Any in-flight run for the old store is cancelled and its remaining
// results are discarded.
func (s *Scheduler) SetStore(store *document.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.store = store
	s.seq++
	if store != nil {
		s.gen = store.Generation()
	} else {
		s.gen = 0
	}
}

// Stop cancels the current run without superseding the store. Units whose
// provider call is already in flight resolve through the fallback path;
// units not yet started stay Pending.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Run translates every unit of the current store that is not already Done:
// all of them on a first run, the Pending and Failed ones on a re-run. The
// call returns as soon as any previous run has drained; workers report
// progress through the callbacks.
func (s *Scheduler) Run(target string) {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	prev := s.runDone
	s.mu.Unlock()

	// Drain the previous run before advancing the sequence. Its in-flight
	// units resolve to Failed fallbacks while their sequence is still
	// current; bumping seq first would drop those results and leave the
	// units stuck in Translating, where no later run can claim them.
	if prev != nil {
		<-prev
	}

	s.mu.Lock()
	store := s.store
	gen := s.gen
	if store == nil {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	provider := s.provider
	s.mu.Unlock()

	var indices []int
	for i, u := range store.Units() {
		if u.Status != document.StatusDone {
			indices = append(indices, i)
		}
	}

	total := len(indices)
	s.reportProgress(gen, seq, 0, total)
	if total == 0 {
		// Nothing to translate; an empty document is a valid result.
		s.reportFinished(gen, seq)
		return
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.runDone = done
	s.mu.Unlock()

	go func() {
		s.runAll(ctx, store, gen, seq, provider, target, indices)
		close(done)
	}()
}

func (s *Scheduler) runAll(ctx context.Context, store *document.Store, gen, seq int64,
	provider translate.Provider, target string, indices []int) {

	jobs := make(chan int)
	var (
		wg     sync.WaitGroup
		doneMu sync.Mutex
		done   int
	)
	total := len(indices)

	resolved := func() {
		doneMu.Lock()
		done++
		// Report while still holding the counter lock; unlocking first
		// would let two workers deliver their callbacks out of order.
		s.reportProgress(gen, seq, done, total)
		doneMu.Unlock()
	}

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s.translateUnit(ctx, store, gen, seq, provider, target, i)
				resolved()
			}
		}()
	}

	for _, i := range indices {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Not-yet-started units stay Pending.
		}
	}
	close(jobs)
	wg.Wait()

	s.reportFinished(gen, seq)
}

// translateUnit moves one unit through its state machine. Provider errors
// of any kind resolve to the fallback copy of the source text, so the
// reader always has something in the translation pane.
func (s *Scheduler) translateUnit(ctx context.Context, store *document.Store, gen, seq int64,
	provider translate.Provider, target string, i int) {

	unit, err := store.Unit(i)
	if err != nil {
		return
	}

	if err := store.SetTranslation(i, "", document.StatusTranslating); err != nil {
		// Already claimed or resolved; nothing to do for this unit.
		return
	}

	result, err := translate.Text(ctx, provider, unit.Source, target)
	if err != nil {
		s.apply(gen, seq, store, i, unit.Source, document.StatusFailed)
		return
	}
	s.apply(gen, seq, store, i, result, document.StatusDone)
}

// apply commits a worker result unless its generation or run has been
// superseded, in which case the result is silently dropped.
func (s *Scheduler) apply(gen, seq int64, store *document.Store, i int, text string, status document.Status) {
	if s.stale(gen, seq) {
		return
	}
	_ = store.SetTranslation(i, text, status)
}

// stale reports whether a result tagged with gen/seq belongs to a
// superseded document load or translation run.
func (s *Scheduler) stale(gen, seq int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen != gen || s.seq != seq
}

func (s *Scheduler) reportProgress(gen, seq int64, done, total int) {
	s.mu.Lock()
	cb := s.onProgress
	s.mu.Unlock()
	if cb == nil || s.stale(gen, seq) {
		return
	}
	cb(done, total)
}

func (s *Scheduler) reportFinished(gen, seq int64) {
	s.mu.Lock()
	cb := s.onFinished
	s.mu.Unlock()
	if cb == nil || s.stale(gen, seq) {
		return
	}
	cb()
}
