package model

import "time"

// Course represents a published course.
type Course struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Instructor    string    `json:"instructor"`
	Description   string    `json:"description"`
	SubmissionURL *string   `json:"submission_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateCourseRequest is the payload for publishing a new course.
type CreateCourseRequest struct {
	Title         string `json:"title" binding:"required,min=2,max=200"`
	Instructor    string `json:"instructor" binding:"required,min=2,max=100"`
	Description   string `json:"description" binding:"required,min=2"`
	SubmissionURL string `json:"submission_url" binding:"omitempty,url"`
}
