package model

import "time"

// Enrollment grants a student view access to one course's resources.
// StudentName is a denormalized snapshot taken at enrollment time; the
// (email, course_id) pair is unique at the storage layer.
type Enrollment struct {
	ID          int       `json:"id"`
	StudentName string    `json:"student_name"`
	Email       string    `json:"email"`
	CourseID    int       `json:"course_id"`
	CreatedAt   time.Time `json:"created_at"`
}
