package reactive

import (
	"sync"
	"testing"
)

// testListener is a simple Listener implementation for testing.
type testListener struct {
	id         uint64
	dirtyCount int
	mu         sync.Mutex
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() {
	l.mu.Lock()
	l.dirtyCount++
	l.mu.Unlock()
}

func (l *testListener) ID() uint64 {
	return l.id
}

func (l *testListener) getDirtyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirtyCount
}

func TestTrackingContextPerGoroutine(t *testing.T) {
	ctx1 := getTrackingContext()
	ctx2 := getTrackingContext()

	if ctx1 != ctx2 {
		t.Error("getTrackingContext should return same context for same goroutine")
	}
}

func TestTrackingContextIsolation(t *testing.T) {
	var wg sync.WaitGroup
	contexts := make(chan *trackingContext, 2)

	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			contexts <- getTrackingContext()
		}()
	}
	wg.Wait()
	close(contexts)

	var got []*trackingContext
	for ctx := range contexts {
		got = append(got, ctx)
	}
	if got[0] == got[1] {
		t.Error("goroutines should have distinct tracking contexts")
	}
}

func TestWithListenerRestoresPrevious(t *testing.T) {
	outer := newTestListener()
	inner := newTestListener()

	WithListener(outer, func() {
		WithListener(inner, func() {
			if getCurrentListener() != Listener(inner) {
				t.Error("inner listener should be current")
			}
		})
		if getCurrentListener() != Listener(outer) {
			t.Error("outer listener should be restored")
		}
	})

	if getCurrentListener() != nil {
		t.Error("listener should be cleared after WithListener")
	}
}

func TestWithOwnerRestoresPrevious(t *testing.T) {
	outer := NewOwner(nil)
	inner := NewOwner(nil)
	defer outer.Dispose()
	defer inner.Dispose()

	WithOwner(outer, func() {
		WithOwner(inner, func() {
			if getCurrentOwner() != inner {
				t.Error("inner owner should be current")
			}
		})
		if getCurrentOwner() != outer {
			t.Error("outer owner should be restored")
		}
	})
}
