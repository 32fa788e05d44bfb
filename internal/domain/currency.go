package domain

import "time"

// Currency is one entry of the external currency catalog. The core only
// reads currencies; it never creates or mutates them.
type Currency struct {
	ID        string
	Code      string
	Name      string
	Symbol    string
	Active    bool
	CreatedAt time.Time
}
