package statesync

import (
	"github.com/vango-dev/statesync/pkg/reactive"
)

// Bind evaluates produce once, starts an engine with the resulting
// mappings, and ties the engine's lifetime to owner: the engine stops when
// the owner is disposed or when the returned stop function is called,
// whichever happens first. The stop function is idempotent either way.
//
// A panicking producer is isolated at the block boundary: it is logged and
// a no-op stop function is returned.
//
// Example:
//
//	stop := statesync.Bind(componentOwner, source, func() []statesync.Mapping {
//	    return []statesync.Mapping{
//	        {Path: "profile.name", Target: nameCell},
//	    }
//	})
func Bind(owner *reactive.Owner, source any, produce func() []Mapping, opts ...Option) (stop func()) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	var mappings []Mapping
	ok := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				cfg.logger.Warn("statesync: mapping producer panicked", "cause", r)
			}
		}()
		mappings = produce()
		return true
	}()
	if !ok {
		return func() {}
	}

	h := Synchronize(source, mappings, opts...)
	if owner != nil {
		owner.OnCleanup(h.Stop)
	}
	return h.Stop
}
