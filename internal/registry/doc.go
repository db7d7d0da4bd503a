// Package registry owns poll definitions and their options. Polls are
// immutable after creation and never deleted; ids are assigned from a
// monotonic counter and never reused.
package registry
