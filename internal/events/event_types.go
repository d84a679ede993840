package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMemberCheckedIn EventType = "member_checked_in"
	EventStaffCheckedIn  EventType = "staff_checked_in"
	EventDeviceRejected  EventType = "device_rejected"
)

// Event represents a domain event emitted by the ingest pipeline.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GymID     string      `json:"gym_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MemberCheckedInPayload payload.
type MemberCheckedInPayload struct {
	MemberID   string    `json:"member_id"`
	MemberName string    `json:"member_name"`
	Phone      string    `json:"phone,omitempty"`
	DeviceCode string    `json:"device_code"`
	CheckIn    time.Time `json:"check_in"`
}

// StaffCheckedInPayload payload.
type StaffCheckedInPayload struct {
	StaffID    string    `json:"staff_id"`
	StaffName  string    `json:"staff_name"`
	DeviceCode string    `json:"device_code"`
	CheckIn    time.Time `json:"check_in"`
}

// DeviceRejectedPayload payload.
type DeviceRejectedPayload struct {
	DeviceKey string `json:"device_key"`
	Reason    string `json:"reason"`
}
