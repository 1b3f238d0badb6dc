package model

import "time"

// Message сообщение между двумя пользователями. Журнал append-only:
// записи никогда не редактируются и не удаляются.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
}

// ConversationSummary последнее сообщение в переписке с собеседником
type ConversationSummary struct {
	OtherUserID int64     `json:"other_user_id"`
	LastMessage string    `json:"last_message"`
	LastSentAt  time.Time `json:"last_sent_at"`
}
