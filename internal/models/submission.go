package models

import "time"

// Submission is a stored contact form message.
type Submission struct {
	ID         string    `json:"id"`
	FormName   string    `json:"form_name"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject,omitempty"`
	Message    string    `json:"message"`
	RemoteHash string    `json:"remote_hash"`
	CreatedAt  time.Time `json:"created_at"`
}
