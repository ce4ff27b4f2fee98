package models

import (
	"sync/atomic"
	"time"
)

var lastID atomic.Int64

// NewTimestampID returns a unique millisecond-timestamp identifier, matching
// the id scheme the storefront data was created with. Collisions inside the
// same millisecond bump the counter forward.
func NewTimestampID() int64 {
	for {
		now := time.Now().UnixMilli()
		prev := lastID.Load()
		if now <= prev {
			now = prev + 1
		}
		if lastID.CompareAndSwap(prev, now) {
			return now
		}
	}
}
