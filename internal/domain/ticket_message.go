package domain

import "time"

// Comment captures a message in a ticket thread. Comments are append-only.
type Comment struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Author    User       `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Mentions  []string   `json:"mentions,omitempty"`
}

func (c Comment) Clone() Comment {
	out := c
	if c.Mentions != nil {
		out.Mentions = append([]string{}, c.Mentions...)
	}
	if c.UpdatedAt != nil {
		updated := *c.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}

// Attachment stores metadata for a file linked to a ticket.
type Attachment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	UploadedBy User      `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}
