package domain

import "time"

// MemberStatus enumerates membership states.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "ACTIVE"
	MemberStatusInactive MemberStatus = "INACTIVE"
)

// Member is a gym client. BiometricCode is the device-facing code a
// terminal reports for this person; nil when no fingerprint is enrolled.
type Member struct {
	ID            string
	GymID         string
	Name          string
	Phone         string
	BiometricCode *string
	Status        MemberStatus
	CreatedAt     time.Time
}
