// Package session owns the session table: token issuance, sliding-window
// validation, explicit destruction, and the background expiry sweep.
//
// Expiry is enforced twice with the same timeout constant: lazily inside
// Validate, and by a recurring sweep that evicts sessions idle clients never
// touch again. Both paths take the same lock, so a sweep never races a
// concurrent Validate refreshing the same token.
package session
