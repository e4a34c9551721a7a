package reactive

// watchConfig holds configuration from WatchOptions.
type watchConfig struct {
	immediate bool
	equals    func(next, prev any) bool
}

// WatchOption is an option for configuring Watch.
type WatchOption interface {
	isWatchOption()
	applyWatch(cfg *watchConfig)
}

type watchOptionFunc func(*watchConfig)

func (f watchOptionFunc) isWatchOption()              {}
func (f watchOptionFunc) applyWatch(cfg *watchConfig) { f(cfg) }

// Immediate causes the callback to fire once at registration time with the
// initial value of the read function (and the zero value as "previous").
func Immediate() WatchOption {
	return watchOptionFunc(func(cfg *watchConfig) {
		cfg.immediate = true
	})
}

// WatchEquals sets the equality function used to decide whether the read
// function's result actually changed. When it reports equal, the callback
// is not invoked. Without this option every re-run of the read function
// invokes the callback.
func WatchEquals(fn func(next, prev any) bool) WatchOption {
	return watchOptionFunc(func(cfg *watchConfig) {
		cfg.equals = fn
	})
}

// Watch observes a computed read function and invokes cb with (new, old)
// values when its result changes. The read function is tracked: any signal
// it reads subscribes the watch, and a change to any of them re-evaluates
// the read function.
//
// The callback runs untracked, so signal reads inside it do not create
// subscriptions.
//
// The returned Cleanup severs the subscription; after it is called the
// callback never fires again. It is safe to call more than once.
//
// Example:
//
//	stop := Watch(
//	    func() any { return user.Get() },
//	    func(next, prev any) { fmt.Println("user changed:", next) },
//	    Immediate(),
//	)
//	defer stop()
func Watch[T any](read func() T, cb func(next, prev T), opts ...WatchOption) Cleanup {
	var cfg watchConfig
	for _, opt := range opts {
		opt.applyWatch(&cfg)
	}

	var prev T
	first := true

	e := CreateEffect(func() Cleanup {
		next := read()

		if first {
			first = false
			prev = next
			if cfg.immediate {
				var zero T
				Untracked(func() { cb(next, zero) })
			}
			return nil
		}

		if cfg.equals != nil && cfg.equals(any(next), any(prev)) {
			return nil
		}

		old := prev
		prev = next
		Untracked(func() { cb(next, old) })
		return nil
	})

	return e.Dispose
}
