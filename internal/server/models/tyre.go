package models

import "time"

// Tyre is a tyre record owned by exactly one user.
type Tyre struct {
	ID        int64
	UserID    int64
	Brand     string
	Model     string
	Size      string
	CreatedAt time.Time
}
