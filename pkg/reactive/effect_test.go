package reactive

import "testing"

func TestEffectRunsImmediately(t *testing.T) {
	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		return nil
	})
	defer e.Dispose()

	if runs != 1 {
		t.Errorf("effect should run once at creation, got %d runs", runs)
	}
}

func TestEffectRerunsOnChange(t *testing.T) {
	count := NewSignal(0)
	runs := 0

	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return nil
	})
	defer e.Dispose()

	count.Set(1)
	count.Set(2)

	if runs != 3 {
		t.Errorf("expected 3 runs (initial + 2 changes), got %d", runs)
	}
}

func TestEffectCleanupBeforeRerun(t *testing.T) {
	count := NewSignal(0)
	var events []string

	e := CreateEffect(func() Cleanup {
		v := count.Get()
		events = append(events, "run")
		_ = v
		return func() { events = append(events, "cleanup") }
	})

	count.Set(1)
	e.Dispose()

	want := []string{"run", "cleanup", "run", "cleanup"}
	if len(events) != len(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], events[i])
		}
	}
}

func TestEffectDynamicDependencies(t *testing.T) {
	useA := NewSignal(true)
	a := NewSignal("a")
	b := NewSignal("b")
	runs := 0

	e := CreateEffect(func() Cleanup {
		if useA.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
		runs++
		return nil
	})
	defer e.Dispose()

	if runs != 1 {
		t.Fatalf("expected 1 initial run, got %d", runs)
	}

	// Currently depends on useA and a; b should be inert
	b.Set("b2")
	if runs != 1 {
		t.Errorf("change to unread signal should not re-run, got %d runs", runs)
	}

	// Switch the branch, then a becomes inert
	useA.Set(false)
	if runs != 2 {
		t.Fatalf("expected 2 runs after branch switch, got %d", runs)
	}

	a.Set("a2")
	if runs != 2 {
		t.Errorf("stale dependency should be dropped, got %d runs", runs)
	}

	b.Set("b3")
	if runs != 3 {
		t.Errorf("expected 3 runs, got %d", runs)
	}
}

func TestEffectSelfWriteSettles(t *testing.T) {
	count := NewSignal(0)
	runs := 0

	// Writing to a read signal inside the body defers the re-run to the
	// settle loop rather than recursing.
	e := CreateEffect(func() Cleanup {
		runs++
		if count.Get() < 3 {
			count.Set(count.Peek() + 1)
		}
		return nil
	})
	defer e.Dispose()

	if count.Peek() != 3 {
		t.Errorf("expected count to settle at 3, got %d", count.Peek())
	}
	if runs < 4 {
		t.Errorf("expected at least 4 passes, got %d", runs)
	}
}

func TestEffectDisposeStopsReruns(t *testing.T) {
	count := NewSignal(0)
	runs := 0

	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return nil
	})

	e.Dispose()
	e.Dispose() // idempotent

	count.Set(1)
	if runs != 1 {
		t.Errorf("disposed effect should not re-run, got %d runs", runs)
	}
}

func TestEffectRegistersWithOwner(t *testing.T) {
	owner := NewOwner(nil)
	count := NewSignal(0)
	runs := 0

	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
	})

	owner.Dispose()
	count.Set(1)
	if runs != 1 {
		t.Errorf("owner disposal should dispose the effect, got %d runs", runs)
	}
}
