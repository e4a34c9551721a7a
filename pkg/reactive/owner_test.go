package reactive

import "testing"

func TestOwnerHierarchy(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)

	if child.Parent() != root {
		t.Error("child should report root as parent")
	}
	if root.Parent() != nil {
		t.Error("root should have no parent")
	}

	root.Dispose()
	if !child.IsDisposed() {
		t.Error("disposing root should dispose children")
	}
}

func TestOwnerCleanupOrder(t *testing.T) {
	owner := NewOwner(nil)
	var order []int

	owner.OnCleanup(func() { order = append(order, 1) })
	owner.OnCleanup(func() { order = append(order, 2) })
	owner.OnCleanup(func() { order = append(order, 3) })

	owner.Dispose()

	// Reverse registration order
	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("cleanup %d: expected %d, got %d", i, want[i], order[i])
		}
	}
}

func TestOwnerCleanupAfterDisposeRunsImmediately(t *testing.T) {
	owner := NewOwner(nil)
	owner.Dispose()

	ran := false
	owner.OnCleanup(func() { ran = true })

	if !ran {
		t.Error("OnCleanup on disposed owner should run immediately")
	}
}

func TestOwnerDisposeIdempotent(t *testing.T) {
	owner := NewOwner(nil)
	runs := 0
	owner.OnCleanup(func() { runs++ })

	owner.Dispose()
	owner.Dispose()

	if runs != 1 {
		t.Errorf("cleanup should run once, got %d", runs)
	}
}

func TestOwnerChildDisposeRemovesFromParent(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)

	child.Dispose()

	// Disposing the root again must not re-dispose the child
	root.Dispose()
	if !root.IsDisposed() || !child.IsDisposed() {
		t.Error("both owners should be disposed")
	}
}

func TestOwnerDisposesEffects(t *testing.T) {
	owner := NewOwner(nil)
	count := NewSignal(0)
	runs := 0

	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
		CreateEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
	})

	if runs != 2 {
		t.Fatalf("expected 2 initial runs, got %d", runs)
	}

	owner.Dispose()
	count.Set(1)
	if runs != 2 {
		t.Errorf("effects should be dead after owner disposal, got %d runs", runs)
	}
}
