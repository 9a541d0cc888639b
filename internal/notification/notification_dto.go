package notification

import "time"

// Message is the payload handed to a Notifier.
type Message struct {
	Severity Severity
	Text     string
	Link     string
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type ClearResponse struct {
	Cleared int64 `json:"cleared"`
}
