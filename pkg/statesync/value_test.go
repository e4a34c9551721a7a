package statesync

import (
	"testing"

	"github.com/vango-dev/statesync/pkg/reactive"
)

func TestKindOf(t *testing.T) {
	type point struct{ X, Y int }
	var nilPtr *point

	tests := []struct {
		name string
		v    any
		want Kind
	}{
		{"nil", nil, KindPrimitive},
		{"int", 42, KindPrimitive},
		{"string", "s", KindPrimitive},
		{"bool", true, KindPrimitive},
		{"map", map[string]any{}, KindMap},
		{"typed map", map[string]int{}, KindMap},
		{"int-keyed map", map[int]string{}, KindPrimitive},
		{"slice", []any{}, KindSequence},
		{"typed slice", []int{1}, KindSequence},
		{"array", [2]int{}, KindSequence},
		{"struct", point{}, KindMap},
		{"struct pointer", &point{}, KindMap},
		{"nil pointer", nilPtr, KindPrimitive},
		{"cell", reactive.NewCell(nil), KindCell},
	}

	for _, tt := range tests {
		if got := kindOf(tt.v); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindSequence.String() != "Sequence" {
		t.Errorf("expected Sequence, got %s", KindSequence)
	}
	if Kind(200).String() != "Unknown" {
		t.Errorf("expected Unknown, got %s", Kind(200))
	}
}

func TestDeref(t *testing.T) {
	cell := reactive.NewCell("inner")
	if Deref(cell) != "inner" {
		t.Errorf("expected inner, got %v", Deref(cell))
	}
	if Deref("plain") != "plain" {
		t.Errorf("expected plain passthrough, got %v", Deref("plain"))
	}
}

func TestCloneShallowMap(t *testing.T) {
	nested := map[string]any{"deep": true}
	src := map[string]any{"a": 1, "n": nested}

	clone := CloneShallow(src).(map[string]any)
	clone["a"] = 2

	if src["a"] != 1 {
		t.Error("clone should not alias the source map")
	}
	// Only the top level is copied
	if clone["n"].(map[string]any)["deep"] != true {
		t.Error("nested containers should be shared")
	}
}

func TestCloneShallowSlice(t *testing.T) {
	src := []any{1, 2, 3}
	clone := CloneShallow(src).([]any)
	clone[0] = 99

	if src[0] != 1 {
		t.Error("clone should not alias the source slice")
	}
}

func TestCloneShallowTyped(t *testing.T) {
	src := []int{1, 2}
	clone := CloneShallow(src).([]int)
	clone[0] = 99
	if src[0] != 1 {
		t.Error("typed slice clone should not alias the source")
	}

	m := map[string]int{"a": 1}
	mc := CloneShallow(m).(map[string]int)
	mc["a"] = 2
	if m["a"] != 1 {
		t.Error("typed map clone should not alias the source")
	}
}

func TestCloneShallowPrimitive(t *testing.T) {
	if CloneShallow(7) != 7 {
		t.Error("primitives pass through unchanged")
	}
	if CloneShallow(nil) != nil {
		t.Error("nil passes through unchanged")
	}
}
