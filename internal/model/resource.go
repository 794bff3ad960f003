package model

import "time"

// Lecture is an uploaded lecture file's metadata.
type Lecture struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	CourseID  int       `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Assignment is an uploaded assignment file's metadata plus its due date.
type Assignment struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	DueDate   string    `json:"due_date"`
	CourseID  int       `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}
