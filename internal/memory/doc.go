// Package memory provides the in-memory store implementations. Each store
// owns its map behind its own lock; nothing else mutates that state.
package memory
