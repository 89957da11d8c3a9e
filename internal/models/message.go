package models

// Message сообщение в чате поддержки.
type Message struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	IsSupport bool   `json:"is_support"`
	CreatedAt string `json:"created_at"`
}
