package models

// Update is the chat platform's webhook envelope. Only the parts the gateway
// reads are modeled; regular messages and channel posts carry the same shape.
type Update struct {
	UpdateID    int64        `json:"update_id"`
	Message     *ChatMessage `json:"message"`
	ChannelPost *ChatMessage `json:"channel_post"`
}

type ChatMessage struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// Content returns the destination id and text of whichever message object is
// present. ok is false when the update holds nothing actionable.
func (u *Update) Content() (chatID int64, text string, ok bool) {
	msg := u.Message
	if msg == nil {
		msg = u.ChannelPost
	}
	if msg == nil || msg.Text == "" {
		return 0, "", false
	}
	return msg.Chat.ID, msg.Text, true
}
