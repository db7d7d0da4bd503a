// Package server is the HTTP transport adapter. It exposes the voting
// service operations as JSON endpoints plus a WebSocket feed for live
// results. Handlers stay thin: extract inputs, call the application layer,
// let the error middleware shape failures.
package server
