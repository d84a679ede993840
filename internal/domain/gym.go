package domain

import "time"

// Gym is the tenant boundary. Every device, member, staff and attendance
// row belongs to exactly one gym; the ingest pipeline never crosses it.
type Gym struct {
	ID        string
	Name      string
	Phone     string
	Address   string
	CreatedAt time.Time
}
