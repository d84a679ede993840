package domain

import "time"

// AttendanceStatus tags a member attendance row.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "PRESENT"
)

// Attendance is one member check-in. CheckOut stays nil until the member
// is checked out manually elsewhere; the ingest gateway only ever creates
// check-ins.
type Attendance struct {
	ID       string
	MemberID string
	CheckIn  time.Time
	CheckOut *time.Time
	Status   AttendanceStatus
}

// StaffAttendance mirrors Attendance for staff. The two are deliberately
// separate tables: downstream reporting treats them as distinct inventories.
type StaffAttendance struct {
	ID       string
	StaffID  string
	CheckIn  time.Time
	CheckOut *time.Time
}
