package domain

import "time"

// IdentityClass says which population a scan resolved to.
type IdentityClass string

const (
	IdentityMember IdentityClass = "MEMBER"
	IdentityStaff  IdentityClass = "STAFF"
)

// RawScan is one normalized scan event from a device push: the
// device-local user code exactly as the terminal sent it, plus the scan
// timestamp.
type RawScan struct {
	UserCode string
	ScanTime time.Time
}
