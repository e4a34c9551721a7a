package reactive

import (
	"sync"
	"testing"
)

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestSignalPeek(t *testing.T) {
	count := NewSignal(42)

	listener := newTestListener()
	WithListener(listener, func() {
		if v := count.Peek(); v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	})

	count.Set(100)
	if listener.getDirtyCount() != 0 {
		t.Errorf("Peek should not subscribe listener, got %d notifications", listener.getDirtyCount())
	}
}

func TestSignalSubscription(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})

	count.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}

	// Same value should not notify
	count.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("same value should not notify, got %d", listener.getDirtyCount())
	}

	count.Set(2)
	if listener.getDirtyCount() != 2 {
		t.Errorf("expected 2 notifications, got %d", listener.getDirtyCount())
	}
}

func TestSignalNoTrackingOutsideContext(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	_ = count.Get()

	count.Set(1)
	if listener.getDirtyCount() != 0 {
		t.Errorf("untracked read should not subscribe, got %d notifications", listener.getDirtyCount())
	}
}

func TestSignalSubscribeDedup(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
		_ = count.Get()
		_ = count.Get()
	})

	count.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("duplicate reads should subscribe once, got %d notifications", listener.getDirtyCount())
	}
}

func TestSignalTouch(t *testing.T) {
	items := NewSignal([]any{1, 2, 3})
	listener := newTestListener()

	WithListener(listener, func() {
		_ = items.Get()
	})

	// Touch fires even though the reference is unchanged
	items.Touch()
	if listener.getDirtyCount() != 1 {
		t.Errorf("Touch should notify subscribers, got %d notifications", listener.getDirtyCount())
	}
}

func TestSignalWithEquals(t *testing.T) {
	// Compare only the integer part: fractional changes are not "changes"
	sig := NewSignal(1.2).WithEquals(func(a, b float64) bool {
		return int(a) == int(b)
	})
	listener := newTestListener()

	WithListener(listener, func() {
		_ = sig.Get()
	})

	sig.Set(1.9)
	if listener.getDirtyCount() != 0 {
		t.Errorf("custom equality should suppress notification, got %d", listener.getDirtyCount())
	}

	sig.Set(2.1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}
}

func TestSignalSliceEquality(t *testing.T) {
	sig := NewSignal([]int{1, 2})
	listener := newTestListener()

	WithListener(listener, func() {
		_ = sig.Get()
	})

	// DeepEqual fallback: equal content does not notify
	sig.Set([]int{1, 2})
	if listener.getDirtyCount() != 0 {
		t.Errorf("deep-equal slice should not notify, got %d", listener.getDirtyCount())
	}

	sig.Set([]int{1, 2, 3})
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}
}

func TestCellInterface(t *testing.T) {
	var cell Cell = NewCell("hello")

	if cell.Get() != "hello" {
		t.Errorf("expected hello, got %v", cell.Get())
	}
	cell.Set("world")
	if cell.Peek() != "world" {
		t.Errorf("expected world, got %v", cell.Peek())
	}
}

func TestSignalConcurrentAccess(t *testing.T) {
	count := NewSignal(0)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			count.Set(n)
		}(i)
		go func() {
			defer wg.Done()
			_ = count.Get()
		}()
	}
	wg.Wait()
}

func TestSignalUnsubscribe(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})
	count.base.unsubscribe(listener)

	count.Set(1)
	if listener.getDirtyCount() != 0 {
		t.Errorf("unsubscribed listener should not be notified, got %d", listener.getDirtyCount())
	}
}
