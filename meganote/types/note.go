package types

import "time"

type PostMessageRequest struct {
	Content string `json:"content"`
}

type MessageView struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NoteProbeResponse confirms a code exists. Messages is only set for the
// owner, and is an empty list when the owner's inbox is empty.
type NoteProbeResponse struct {
	Code     string         `json:"noteCode"`
	Messages *[]MessageView `json:"messages,omitempty"`
}
