package repository

import (
	"context"

	"tripmate/internal/domain/entity"
)

// ChatRepository reads and writes one participant's copy of chats and
// messages. Every method addresses a single owner subtree; replicating a
// write to the other participant is the use case's job, one explicit call
// per copy.
type ChatRepository interface {
	GetChatCopy(ctx context.Context, ownerID, chatKey string) (*entity.Chat, error)
	SaveChatCopy(ctx context.Context, ownerID string, chat *entity.Chat) error
	UpdateChatCopy(ctx context.Context, ownerID, chatKey string, fields map[string]interface{}) error
	ListChatCopies(ctx context.Context, ownerID string) ([]*entity.Chat, error)

	GenerateMessageID(ctx context.Context, ownerID string) (string, error)
	SaveMessageCopy(ctx context.Context, ownerID string, message *entity.Message) error
	// MessagesByChat returns the owner's messages for one chat, timestamp
	// ascending with key-order tie-break, trimmed to the last limit entries
	// when limit > 0.
	MessagesByChat(ctx context.Context, ownerID, chatID string, limit int) ([]*entity.Message, error)
	SetMessageReadBy(ctx context.Context, ownerID, messageID string, readBy []string) error
}
