// Package websocket pushes solve results to live subscribers.
//
// A Hub owns every connection. Clients subscribe to a topic, the config id
// of the labyrinth they watch, with GET /ws?config=<id>. Omitting the
// parameter subscribes to all topics.
//
// Outgoing messages are JSON:
//
//	{"topic": "classic", "event": "run_completed", "run": {...}}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("config"))
//	})
//
//	hub.BroadcastRun("classic", run)
//
// Registration, removal and delivery all happen on the Run goroutine, so the
// broadcast helpers are safe to call from any handler.
package websocket
