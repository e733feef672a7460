package models

import "time"

type ChatSession struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title,omitempty"`
	LastMsg   string    `json:"lastMsg,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Classification is the waste classifier verdict shaped for display.
type Classification struct {
	Label        string
	Suggestions  []string
	RecycleSteps []string
	Location     string
}
