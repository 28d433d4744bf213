package entity

import "time"

// Category agrupa items (analgésicos, antibióticos, material de curación, ...).
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
