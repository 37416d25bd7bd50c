package models

import "time"

// MaxNoteAttachments caps the files attached to a single note.
const MaxNoteAttachments = 3

type Note struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments"`
	CreatedAt   time.Time `json:"created_at"`
}
