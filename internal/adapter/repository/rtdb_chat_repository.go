package repository

import (
	"context"
	"fmt"
	"sort"

	"tripmate/internal/domain/entity"
	"tripmate/internal/domain/repository"
	"tripmate/pkg/errors"
	"tripmate/pkg/logger"
)

type rtdbChatRepository struct {
	store repository.Store
}

func NewRTDBChatRepository(store repository.Store) repository.ChatRepository {
	return &rtdbChatRepository{store: store}
}

func userChatsPath(ownerID string) string {
	return fmt.Sprintf("Users/%s/chats", ownerID)
}

func userChatPath(ownerID, chatKey string) string {
	return fmt.Sprintf("Users/%s/chats/%s", ownerID, chatKey)
}

func userMessagesPath(ownerID string) string {
	return fmt.Sprintf("Users/%s/messages", ownerID)
}

func userMessagePath(ownerID, messageID string) string {
	return fmt.Sprintf("Users/%s/messages/%s", ownerID, messageID)
}

func (r *rtdbChatRepository) GetChatCopy(ctx context.Context, ownerID, chatKey string) (*entity.Chat, error) {
	var chat *entity.Chat
	if err := r.store.Get(ctx, userChatPath(ownerID, chatKey), &chat); err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, errors.NotFound("Chat", nil)
	}
	if chat.ChatKey == "" {
		chat.ChatKey = chatKey
	}
	return chat, nil
}

func (r *rtdbChatRepository) SaveChatCopy(ctx context.Context, ownerID string, chat *entity.Chat) error {
	return r.store.Set(ctx, userChatPath(ownerID, chat.ChatKey), chat)
}

func (r *rtdbChatRepository) UpdateChatCopy(ctx context.Context, ownerID, chatKey string, fields map[string]interface{}) error {
	return r.store.Update(ctx, userChatPath(ownerID, chatKey), fields)
}

func (r *rtdbChatRepository) ListChatCopies(ctx context.Context, ownerID string) ([]*entity.Chat, error) {
	var raw map[string]*entity.Chat
	if err := r.store.Get(ctx, userChatsPath(ownerID), &raw); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	chats := make([]*entity.Chat, 0, len(raw))
	for _, key := range keys {
		chat := raw[key]
		if chat == nil {
			continue
		}
		if chat.ChatKey == "" {
			chat.ChatKey = key
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func (r *rtdbChatRepository) GenerateMessageID(ctx context.Context, ownerID string) (string, error) {
	return r.store.GenerateKey(ctx, userMessagesPath(ownerID))
}

func (r *rtdbChatRepository) SaveMessageCopy(ctx context.Context, ownerID string, message *entity.Message) error {
	return r.store.Set(ctx, userMessagePath(ownerID, message.ID), message)
}

func (r *rtdbChatRepository) MessagesByChat(ctx context.Context, ownerID, chatID string, limit int) ([]*entity.Message, error) {
	messages := make([]*entity.Message, 0)

	snapshots, err := r.store.QueryByChild(ctx, userMessagesPath(ownerID), "chatId", chatID)
	if err == nil {
		for _, snap := range snapshots {
			var message entity.Message
			if err := snap.Unmarshal(&message); err != nil {
				continue
			}
			message.ID = snap.Key
			messages = append(messages, &message)
		}
	} else {
		logger.Warn("MessagesByChat: indexed query failed for %s, falling back to full scan: %v", ownerID, err)
		messages, err = r.scanMessages(ctx, ownerID, chatID)
		if err != nil {
			return nil, err
		}
	}

	sortMessages(messages)
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (r *rtdbChatRepository) scanMessages(ctx context.Context, ownerID, chatID string) ([]*entity.Message, error) {
	var raw map[string]*entity.Message
	if err := r.store.Get(ctx, userMessagesPath(ownerID), &raw); err != nil {
		return nil, err
	}

	messages := make([]*entity.Message, 0, len(raw))
	for key, message := range raw {
		if message == nil || message.ChatID != chatID {
			continue
		}
		message.ID = key
		messages = append(messages, message)
	}
	return messages, nil
}

// sortMessages orders by timestamp ascending with the generated key as the
// tie-break, so the indexed and scan paths agree on the observable order.
func sortMessages(messages []*entity.Message) {
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].Timestamp != messages[j].Timestamp {
			return messages[i].Timestamp < messages[j].Timestamp
		}
		return messages[i].ID < messages[j].ID
	})
}

func (r *rtdbChatRepository) SetMessageReadBy(ctx context.Context, ownerID, messageID string, readBy []string) error {
	return r.store.Update(ctx, userMessagePath(ownerID, messageID), map[string]interface{}{
		"readBy": readBy,
	})
}
