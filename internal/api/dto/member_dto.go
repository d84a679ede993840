package dto

import "time"

// MemberResponse is the admin API view of a member.
type MemberResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone,omitempty"`
	BiometricCode *string   `json:"biometric_code,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// AttendanceResponse is one attendance row.
type AttendanceResponse struct {
	ID       string     `json:"id"`
	CheckIn  time.Time  `json:"check_in"`
	CheckOut *time.Time `json:"check_out,omitempty"`
	Status   string     `json:"status"`
}
