package domain

import "time"

// Submission is one expression-of-interest form entry. Rows are insert-only:
// the service never updates or deletes them, and duplicate emails are allowed
// (each submission is independent history, not an upsert).
type Submission struct {
	ID          int64     `json:"id"`
	Title       *string   `json:"title"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	SubmittedAt time.Time `json:"submitted_at"`
}
