package domain

import "time"

// Counter stores the last issued value for one named monotonic series.
// CurrentValue only increases; a value is never reused once issued.
type Counter struct {
	ID           string
	CurrentValue int64
	Prefix       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
