package statesync

import (
	"testing"

	"github.com/vango-dev/statesync/pkg/reactive"
)

func TestBindLifecycle(t *testing.T) {
	owner := reactive.NewOwner(nil)
	user := reactive.NewCell(map[string]any{"name": "alice"})
	source := map[string]any{"user": user}
	target := reactive.NewCell(nil)

	stop := Bind(owner, source, func() []Mapping {
		return []Mapping{{Path: "user.name", Target: target}}
	})

	if target.Peek() != "alice" {
		t.Fatalf("expected alice, got %v", target.Peek())
	}

	// Owner disposal stops the engine
	owner.Dispose()
	user.Set(map[string]any{"name": "bob"})
	if target.Peek() != "alice" {
		t.Errorf("disposed owner should have stopped the engine, got %v", target.Peek())
	}

	// Late stop call is a no-op
	stop()
}

func TestBindExplicitStop(t *testing.T) {
	owner := reactive.NewOwner(nil)
	defer owner.Dispose()

	user := reactive.NewCell(map[string]any{"v": 1})
	target := reactive.NewCell(nil)

	stop := Bind(owner, map[string]any{"user": user}, func() []Mapping {
		return []Mapping{{Path: "user.v", Target: target}}
	})

	stop()
	stop() // idempotent

	user.Set(map[string]any{"v": 2})
	if target.Peek() != 1 {
		t.Errorf("stopped binding should not process updates, got %v", target.Peek())
	}
}

func TestBindNilOwner(t *testing.T) {
	target := reactive.NewCell(nil)

	stop := Bind(nil, map[string]any{"v": 7}, func() []Mapping {
		return []Mapping{{Path: "v", Target: target}}
	})
	defer stop()

	if target.Peek() != 7 {
		t.Errorf("expected 7, got %v", target.Peek())
	}
}

func TestBindPanickingProducer(t *testing.T) {
	owner := reactive.NewOwner(nil)
	defer owner.Dispose()

	stop := Bind(owner, map[string]any{}, func() []Mapping {
		panic("producer exploded")
	})

	// Isolated: a usable no-op stop comes back
	stop()
}

func TestBindOptionsForwarded(t *testing.T) {
	owner := reactive.NewOwner(nil)
	defer owner.Dispose()

	target := reactive.NewCell(nil)
	stop := Bind(owner, map[string]any{"v": 1}, func() []Mapping {
		return []Mapping{{Path: "v", Target: target}}
	}, NoImmediate())
	defer stop()

	if target.Peek() != nil {
		t.Errorf("NoImmediate should be forwarded to the engine, got %v", target.Peek())
	}
}
