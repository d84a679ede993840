package domain

import "time"

// Staff is a gym employee. Structurally close to Member but kept as a
// separate entity: staff attendance is reported and stored apart from
// member attendance.
type Staff struct {
	ID            string
	GymID         string
	Name          string
	Phone         string
	BiometricCode *string
	CreatedAt     time.Time
}
