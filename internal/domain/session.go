package domain

import "time"

// Session maps an opaque token to its owner. LastAccess slides forward on
// every successful validation; a session whose LastAccess is older than the
// configured timeout is expired.
type Session struct {
	Token      string
	Username   string
	LastAccess time.Time
}
