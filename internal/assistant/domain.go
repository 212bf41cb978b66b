package assistant

import "time"

// Role enumerates message authors.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat transcript entry.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Attachment is an uploaded file accompanying a chat message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}
