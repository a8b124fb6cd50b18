// Package server exposes a signup form over HTTP and WebSocket.
//
// It is the rendering boundary: a view layer reads the form state, sets and
// touches fields, submits and resets, and listens for state changes.
//
//	GET  /form                       state snapshot
//	PUT  /form/fields/{path}         set a value, body {"value": ...}
//	POST /form/fields/{path}/touch   mark a field touched
//	POST /form/submit                200 with values, 422 with the snapshot
//	POST /form/reset                 restore initial values
//	GET  /form/events                WebSocket stream of snapshots
//	GET  /metrics                    Prometheus metrics, when configured
package server
