// Package app is the application layer - the voting service facade. It is
// the only component that composes the user store, session manager, poll
// registry, and voting engine, and it owns the externally callable
// operation set. Every authenticated operation resolves the session first
// and treats a session failure as terminal for that call.
package app
