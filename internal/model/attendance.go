package model

import "time"

// AttendanceLog records hours spent by an instructor against an enrollment.
type AttendanceLog struct {
	ID           string    `json:"id"`
	EnrollmentID string    `json:"enrollment_id"`
	InstructorID string    `json:"instructor_id"`
	HoursSpent   float64   `json:"hours_spent"`
	SessionDate  time.Time `json:"session_date"`
	CreatedAt    time.Time `json:"created_at"`
}

type RecordAttendanceRequest struct {
	EnrollmentID string    `json:"enrollment_id" binding:"required,uuid"`
	HoursSpent   float64   `json:"hours_spent" binding:"required,gt=0"`
	SessionDate  time.Time `json:"session_date"`
	// InstructorID lets an admin log on behalf of an instructor.
	InstructorID *string `json:"instructor_id" binding:"omitempty,uuid"`
}
