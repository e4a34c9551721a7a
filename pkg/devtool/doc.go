// Package devtool exposes a running synchronization engine for inspection
// during development: a JSON snapshot of active mappings, a websocket
// stream of update events, and a Prometheus metrics endpoint.
//
//	hub := devtool.NewHub()
//	h := statesync.Synchronize(src, mappings, statesync.WithObserver(hub))
//	srv := devtool.NewServer(hub, h.Snapshot)
//	http.ListenAndServe(":6090", srv.Routes())
//
// The server is observability only; it never carries state between
// processes.
package devtool
