package notes

import "time"

type Note struct {
	Id        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AddNoteRequest is the POST /notes body. Content is the only field and
// it is required; everything else about a note is assigned by the store.
type AddNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

type AddNoteResponse struct {
	Id      int64  `json:"id"`
	Content string `json:"content"`
}

type DeleteNoteResponse struct {
	Success bool `json:"success"`
}
