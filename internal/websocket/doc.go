// Package websocket fans live tally snapshots out to subscribed clients.
//
// The Hub is a single goroutine consuming commands from a channel; all
// connection state lives inside that goroutine, so no locks are needed.
// Each connection gets its own buffered writer goroutine; clients that
// cannot keep up are disconnected rather than allowed to stall a broadcast.
package websocket
