package models

import "time"

// ClickEvent represents a raw click intended to be passed through channels
// to the click workers.
type ClickEvent struct {
	Hash      string    // The short link that was resolved
	Timestamp time.Time // When the click occurred
}
