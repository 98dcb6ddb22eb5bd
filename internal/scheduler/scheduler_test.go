package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"codeberg.org/snonux/biread/internal/document"
	"codeberg.org/snonux/biread/internal/testutil"
)

func TestRun_TranslatesAllUnits(t *testing.T) {
	provider := testutil.NewMockProvider()
	provider.Translations["hello"] = "hallo"
	provider.Translations["world"] = "welt"

	store := document.New([]string{"hello", "world"})
	s := New(provider, 2)
	s.SetStore(store)

	finished := make(chan struct{})
	var mu sync.Mutex
	var progress [][2]int
	s.SetCallbacks(func(done, total int) {
		mu.Lock()
		progress = append(progress, [2]int{done, total})
		mu.Unlock()
	}, func() { close(finished) })

	s.Run("de")
	waitFinished(t, finished)

	for i, want := range []string{"hallo", "welt"} {
		u, _ := store.Unit(i)
		if u.Status != document.StatusDone {
			t.Errorf("unit %d status = %s, want Done", i, u.Status)
		}
		if u.Translation != want {
			t.Errorf("unit %d translation = %q, want %q", i, u.Translation, want)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assertMonotonic(t, progress, 2)
}

func TestRun_FallbackOnProviderFailure(t *testing.T) {
	// Provider times out for paragraph 1 of 3.
	provider := testutil.NewMockProvider()
	provider.Errors["B"] = errors.New("timeout")

	store := document.New([]string{"A", "B", "C"})
	s := New(provider, 3)
	s.SetStore(store)

	finished := make(chan struct{})
	var mu sync.Mutex
	var progress [][2]int
	s.SetCallbacks(func(done, total int) {
		mu.Lock()
		progress = append(progress, [2]int{done, total})
		mu.Unlock()
	}, func() { close(finished) })

	s.Run("de")
	waitFinished(t, finished)

	u0, _ := store.Unit(0)
	u1, _ := store.Unit(1)
	u2, _ := store.Unit(2)

	if u0.Status != document.StatusDone || u2.Status != document.StatusDone {
		t.Errorf("units 0/2 = %s/%s, want Done/Done", u0.Status, u2.Status)
	}
	if u1.Status != document.StatusFailed {
		t.Errorf("unit 1 status = %s, want Failed", u1.Status)
	}
	// Fallback law: the failed unit carries a copy of its source.
	if u1.Translation != u1.Source {
		t.Errorf("unit 1 translation = %q, want source %q", u1.Translation, u1.Source)
	}

	// After the run every unit has a non-empty translation.
	for i, u := range store.Units() {
		if u.Translation == "" {
			t.Errorf("unit %d has empty translation after run", i)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assertMonotonic(t, progress, 3)
}

func TestRun_EmptyStoreFinishesImmediately(t *testing.T) {
	provider := testutil.NewMockProvider()
	s := New(provider, 2)
	s.SetStore(document.New(nil))

	finished := make(chan struct{})
	s.SetCallbacks(nil, func() { close(finished) })

	s.Run("de")
	waitFinished(t, finished)

	if provider.CallCount() != 0 {
		t.Errorf("provider called %d times for empty store", provider.CallCount())
	}
}

func TestRun_NoStoreIsNoop(t *testing.T) {
	provider := testutil.NewMockProvider()
	s := New(provider, 2)
	s.Run("de") // must not panic or call the provider
	if provider.CallCount() != 0 {
		t.Errorf("provider called %d times without a store", provider.CallCount())
	}
}

func TestRun_RerunOnlyTouchesUnfinishedUnits(t *testing.T) {
	provider := testutil.NewMockProvider()
	provider.Errors["B"] = errors.New("flaky")

	store := document.New([]string{"A", "B", "C"})
	s := New(provider, 1)
	s.SetStore(store)

	finished := make(chan struct{})
	s.SetCallbacks(nil, func() { finished <- struct{}{} })

	s.Run("de")
	waitFinished(t, finished)

	// The provider recovers; a second user-initiated run retries only
	// the Failed unit.
	provider.Errors = map[string]error{}
	before := provider.CallCount()

	s.Run("de")
	waitFinished(t, finished)

	if got := provider.CallCount() - before; got != 1 {
		t.Errorf("re-run made %d provider calls, want 1", got)
	}
	u, _ := store.Unit(1)
	if u.Status != document.StatusDone {
		t.Errorf("unit 1 status = %s after re-run, want Done", u.Status)
	}
}

func TestRun_SupersededStoreReceivesNothing(t *testing.T) {
	provider := testutil.NewMockProvider()
	provider.Delay = 50 * time.Millisecond

	oldStore := document.New([]string{"old one", "old two", "old three"})
	s := New(provider, 3)
	s.SetStore(oldStore)
	s.Run("de")

	// Load a new document while the old run is still in flight.
	time.Sleep(5 * time.Millisecond)
	newStore := document.New([]string{"old one", "new two"})

	finished := make(chan struct{})
	s.SetCallbacks(nil, func() { close(finished) })
	s.SetStore(newStore)

	fast := testutil.NewMockProvider()
	fast.Translations["old one"] = "fresh result"
	fast.Translations["new two"] = "fresh result"
	s.SetProvider(fast)
	s.Run("de")
	waitFinished(t, finished)

	// Give stragglers from the old run a chance to (incorrectly) land.
	time.Sleep(100 * time.Millisecond)

	for i, u := range newStore.Units() {
		if u.Status != document.StatusDone {
			t.Errorf("new unit %d status = %s, want Done", i, u.Status)
		}
		if u.Translation != "fresh result" {
			t.Errorf("new unit %d got %q, want result from the new run", i, u.Translation)
		}
	}
}

func TestStop_LeavesNoUnitStuckTranslating(t *testing.T) {
	provider := testutil.NewMockProvider()
	provider.Delay = 30 * time.Millisecond

	paragraphs := make([]string, 8)
	for i := range paragraphs {
		paragraphs[i] = fmt.Sprintf("p%d", i)
	}
	store := document.New(paragraphs)

	s := New(provider, 2)
	s.SetStore(store)
	s.Run("de")

	time.Sleep(10 * time.Millisecond)
	s.Stop()

	testutil.Eventually(t, time.Second, func() bool {
		for _, u := range store.Units() {
			if u.Status == document.StatusTranslating {
				return false
			}
		}
		return true
	})

	// In-flight units resolved via fallback, unstarted ones stay Pending.
	for i, u := range store.Units() {
		switch u.Status {
		case document.StatusPending, document.StatusDone:
		case document.StatusFailed:
			if u.Translation != u.Source {
				t.Errorf("unit %d Failed without fallback copy", i)
			}
		default:
			t.Errorf("unit %d stuck in %s", i, u.Status)
		}
	}
}

func TestRun_ProgressReachesTotalExactlyOnce(t *testing.T) {
	provider := testutil.NewMockProvider()
	store := document.New([]string{"a", "b", "c", "d", "e"})

	s := New(provider, 4)
	s.SetStore(store)

	finished := make(chan struct{})
	var mu sync.Mutex
	var progress [][2]int
	s.SetCallbacks(func(done, total int) {
		mu.Lock()
		progress = append(progress, [2]int{done, total})
		mu.Unlock()
	}, func() { close(finished) })

	s.Run("fr")
	waitFinished(t, finished)

	mu.Lock()
	defer mu.Unlock()
	assertMonotonic(t, progress, 5)

	completions := 0
	for _, p := range progress {
		if p[0] == p[1] && p[1] == 5 {
			completions++
		}
	}
	if completions != 1 {
		t.Errorf("progress reached (N,N) %d times, want exactly once", completions)
	}
}

func TestRun_RerunWhileInFlightResolvesEveryUnit(t *testing.T) {
	provider := testutil.NewMockProvider()
	provider.Delay = 200 * time.Millisecond
	provider.Translations["solo"] = "allein"

	store := document.New([]string{"solo"})
	s := New(provider, 2)
	s.SetStore(store)

	finished := make(chan struct{}, 2)
	s.SetCallbacks(nil, func() { finished <- struct{}{} })

	s.Run("de")
	time.Sleep(50 * time.Millisecond)

	// The second Run drains the first, so its in-flight unit lands as a
	// Failed fallback before the new run claims it again.
	s.Run("de")

	for i := 0; i < 2; i++ {
		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatal("run did not finish in time")
		}
	}

	u, _ := store.Unit(0)
	if u.Status == document.StatusTranslating {
		t.Fatal("unit stuck in Translating after both runs finished")
	}
	if u.Status != document.StatusDone || u.Translation != "allein" {
		t.Errorf("unit = %s %q, want Done %q", u.Status, u.Translation, "allein")
	}
}

func TestRun_RerunWhileInFlightManyUnits(t *testing.T) {
	provider := testutil.NewMockProvider()
	provider.Delay = 30 * time.Millisecond

	paragraphs := make([]string, 8)
	for i := range paragraphs {
		paragraphs[i] = fmt.Sprintf("p%d", i)
	}
	store := document.New(paragraphs)

	s := New(provider, 4)
	s.SetStore(store)

	finished := make(chan struct{}, 2)
	s.SetCallbacks(nil, func() { finished <- struct{}{} })

	s.Run("de")
	time.Sleep(15 * time.Millisecond)
	s.Run("de")

	for i := 0; i < 2; i++ {
		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatal("run did not finish in time")
		}
	}

	for i, u := range store.Units() {
		if u.Status != document.StatusDone {
			t.Errorf("unit %d status = %s, want Done", i, u.Status)
		}
	}
}

func TestRun_ProgressStaysMonotonicUnderManyWorkers(t *testing.T) {
	provider := testutil.NewMockProvider()

	paragraphs := make([]string, 64)
	for i := range paragraphs {
		paragraphs[i] = fmt.Sprintf("p%d", i)
	}
	store := document.New(paragraphs)

	s := New(provider, 8)
	s.SetStore(store)

	finished := make(chan struct{})
	var mu sync.Mutex
	var progress [][2]int
	s.SetCallbacks(func(done, total int) {
		mu.Lock()
		progress = append(progress, [2]int{done, total})
		mu.Unlock()
	}, func() { close(finished) })

	s.Run("de")
	waitFinished(t, finished)

	mu.Lock()
	defer mu.Unlock()
	assertMonotonic(t, progress, 64)
}

// assertMonotonic checks that reported done counts never decrease and end
// at want.
func assertMonotonic(t *testing.T, progress [][2]int, want int) {
	t.Helper()

	if len(progress) == 0 {
		t.Fatal("no progress reported")
	}
	prev := -1
	for _, p := range progress {
		if p[0] < prev {
			t.Fatalf("progress went backwards: %v", progress)
		}
		prev = p[0]
	}
	last := progress[len(progress)-1]
	if last[0] != want || last[1] != want {
		t.Errorf("final progress = %v, want (%d,%d)", last, want, want)
	}
}

func waitFinished(t *testing.T, finished chan struct{}) {
	t.Helper()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("translation run did not finish in time")
	}
}
