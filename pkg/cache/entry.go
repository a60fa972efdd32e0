package cache

import "time"

// entry wraps cached data with its expiry. The file and Mongo backends
// store it as a document; Redis expires keys natively.
type entry struct {
	Key       string    `json:"-" bson:"_id"`
	Data      []byte    `json:"data" bson:"data"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at,omitempty"`
}

func newEntry(data []byte, ttl time.Duration, now time.Time) entry {
	e := entry{Data: data}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}
	return e
}

func (e entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}
