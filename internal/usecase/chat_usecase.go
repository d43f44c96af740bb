package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"tripmate/internal/domain/entity"
	"tripmate/internal/domain/repository"
	"tripmate/pkg/errors"
	"tripmate/pkg/logger"
)

const (
	defaultMessageLimit = 50
	defaultSearchLimit  = 20
)

type ChatUseCase struct {
	chatRepo         repository.ChatRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:         chatRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

// ChatResult reports whether the chat already existed so the handler can
// pick the right status code.
type ChatResult struct {
	Chat     *entity.Chat
	Existing bool
}

// ChatSummary is a chat copy enriched with the other participant's display
// data for list rendering.
type ChatSummary struct {
	*entity.Chat
	OtherUser *entity.User `json:"otherUser,omitempty"`
}

type SendMessageInput struct {
	ChatID  string
	Content string
	Type    string
}

// GetOrCreateChat returns the caller's existing chat with the other user, or
// creates the relation under both participants. Creation is idempotent on
// the canonical key.
func (uc *ChatUseCase) GetOrCreateChat(ctx context.Context, callerID, otherID string) (*ChatResult, error) {
	if callerID == otherID {
		return nil, errors.BadRequest("You cannot create a chat with yourself", nil)
	}

	chatKey := entity.CanonicalChatKey(callerID, otherID)
	chat, err := uc.chatRepo.GetChatCopy(ctx, callerID, chatKey)
	if err == nil {
		return &ChatResult{Chat: chat, Existing: true}, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		logger.Warn("GetOrCreateChat: existence check failed for %s, assuming not found: %v", chatKey, err)
	}

	// Older records were keyed without sorting the participant ids, so the
	// canonical lookup can miss them. Scan the caller's chats before
	// creating a duplicate relation.
	existing, err := uc.chatRepo.ListChatCopies(ctx, callerID)
	if err != nil {
		logger.Warn("GetOrCreateChat: chat scan failed for %s, assuming not found: %v", callerID, err)
	} else {
		for _, c := range existing {
			if len(c.Participants) == 2 && c.HasParticipant(otherID) {
				return &ChatResult{Chat: c, Existing: true}, nil
			}
		}
	}

	participants := []string{callerID, otherID}
	sort.Strings(participants)
	chat = &entity.Chat{
		ChatKey:      chatKey,
		Participants: participants,
		CreatedAt:    time.Now().UnixMilli(),
	}

	// Two separate writes, no transaction. A crash in between leaves one
	// side without the relation; message sends heal it from the chat key.
	if err := uc.chatRepo.SaveChatCopy(ctx, callerID, chat); err != nil {
		return nil, err
	}
	if err := uc.chatRepo.SaveChatCopy(ctx, otherID, chat); err != nil {
		return nil, err
	}
	return &ChatResult{Chat: chat, Existing: false}, nil
}

// SendMessage writes the message under both participants, updates chat
// metadata and notifies the recipient. Only the message writes themselves
// can fail the call; metadata and notification failures are logged.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.Message, error) {
	if !entity.ValidMessageType(input.Type) {
		return nil, errors.BadRequest("Invalid message type", nil)
	}

	chat, err := uc.chatRepo.GetChatCopy(ctx, senderID, input.ChatID)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			logger.Warn("SendMessage: chat lookup failed for %s, attempting recovery: %v", input.ChatID, err)
		}
		chat, err = uc.recoverChat(ctx, senderID, input.ChatID)
		if err != nil {
			return nil, err
		}
	}

	recipientID := chat.OtherParticipant(senderID)
	if recipientID == "" {
		return nil, errors.NotFound("Chat", nil)
	}

	id, err := uc.chatRepo.GenerateMessageID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	message := &entity.Message{
		ID:        id,
		ChatID:    chat.ChatKey,
		SenderID:  senderID,
		Content:   input.Content,
		Type:      input.Type,
		Timestamp: time.Now().UnixMilli(),
		ReadBy:    []string{senderID},
	}

	// Identical copies under both participants, same id.
	if err := uc.chatRepo.SaveMessageCopy(ctx, senderID, message); err != nil {
		return nil, err
	}
	if err := uc.chatRepo.SaveMessageCopy(ctx, recipientID, message); err != nil {
		return nil, err
	}

	uc.updateChatMetadata(ctx, senderID, recipientID, chat, message)
	uc.notifyNewMessage(ctx, senderID, recipientID, message)
	return message, nil
}

// recoverChat recreates a chat relation that is missing from the sender's
// subtree. The participants must be inferable from the chat id and the
// sender must be one of them.
func (uc *ChatUseCase) recoverChat(ctx context.Context, senderID, chatID string) (*entity.Chat, error) {
	participants, ok := entity.SplitChatKey(chatID)
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	if participants[0] != senderID && participants[1] != senderID {
		return nil, errors.NotFound("Chat", nil)
	}

	logger.Info("SendMessage: recreating missing chat %s for %s", chatID, senderID)
	sort.Strings(participants)
	chat := &entity.Chat{
		ChatKey:      chatID,
		Participants: participants,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if err := uc.chatRepo.SaveChatCopy(ctx, senderID, chat); err != nil {
		return nil, err
	}
	if err := uc.chatRepo.SaveChatCopy(ctx, chat.OtherParticipant(senderID), chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (uc *ChatUseCase) updateChatMetadata(ctx context.Context, senderID, recipientID string, chat *entity.Chat, message *entity.Message) {
	senderFields := map[string]interface{}{
		"lastMessage":     message.Content,
		"lastMessageTime": message.Timestamp,
		"unreadCount":     0,
	}
	if err := uc.chatRepo.UpdateChatCopy(ctx, senderID, chat.ChatKey, senderFields); err != nil {
		logger.Warn("SendMessage: sender metadata update failed for %s: %v", chat.ChatKey, err)
	}

	// The recipient's unread count lives on the recipient's own copy; the
	// sender's copy is not a valid source for it.
	recipientChat, err := uc.chatRepo.GetChatCopy(ctx, recipientID, chat.ChatKey)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			logger.Warn("SendMessage: recipient chat read failed for %s: %v", chat.ChatKey, err)
		}
		healed := &entity.Chat{
			ChatKey:         chat.ChatKey,
			Participants:    chat.Participants,
			LastMessage:     message.Content,
			LastMessageTime: message.Timestamp,
			UnreadCount:     1,
			CreatedAt:       chat.CreatedAt,
		}
		if err := uc.chatRepo.SaveChatCopy(ctx, recipientID, healed); err != nil {
			logger.Warn("SendMessage: recipient chat heal failed for %s: %v", chat.ChatKey, err)
		}
		return
	}

	recipientFields := map[string]interface{}{
		"lastMessage":     message.Content,
		"lastMessageTime": message.Timestamp,
		"unreadCount":     recipientChat.UnreadCount + 1,
	}
	if err := uc.chatRepo.UpdateChatCopy(ctx, recipientID, chat.ChatKey, recipientFields); err != nil {
		logger.Warn("SendMessage: recipient metadata update failed for %s: %v", chat.ChatKey, err)
	}
}

func (uc *ChatUseCase) notifyNewMessage(ctx context.Context, senderID, recipientID string, message *entity.Message) {
	sender, degraded := uc.userRepo.ResolveDisplay(ctx, senderID)
	name := sender.Username
	if degraded {
		name = senderID
	}

	notification := &entity.Notification{
		Title:     "New message",
		Message:   fmt.Sprintf("%s: %s", name, message.Content),
		Type:      entity.NotificationTypeNewMessage,
		CreatedAt: time.Now().UnixMilli(),
		Data: map[string]interface{}{
			"chatId":    message.ChatID,
			"senderId":  senderID,
			"messageId": message.ID,
		},
	}
	if _, err := uc.notificationRepo.Create(ctx, recipientID, notification); err != nil {
		logger.Warn("SendMessage: notification write failed for %s: %v", recipientID, err)
	}
}

// ListChats returns the caller's chats, most recent activity first, each
// enriched with the other participant's display data.
func (uc *ChatUseCase) ListChats(ctx context.Context, callerID string) ([]*ChatSummary, error) {
	chats, err := uc.chatRepo.ListChatCopies(ctx, callerID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].LastMessageTime > chats[j].LastMessageTime
	})

	summaries := make([]*ChatSummary, 0, len(chats))
	for _, chat := range chats {
		summary := &ChatSummary{Chat: chat}
		if otherID := chat.OtherParticipant(callerID); otherID != "" {
			summary.OtherUser, _ = uc.userRepo.ResolveDisplay(ctx, otherID)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ListMessages returns the last limit messages of the chat in timestamp
// order. A chat the caller has no copy of yields an empty history, not an
// error; clients open chats before any message exists.
func (uc *ChatUseCase) ListMessages(ctx context.Context, callerID, chatID string, limit int) ([]*entity.Message, error) {
	if _, err := uc.chatRepo.GetChatCopy(ctx, callerID, chatID); err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			logger.Warn("ListMessages: chat lookup failed for %s, returning empty history: %v", chatID, err)
		}
		return []*entity.Message{}, nil
	}

	if limit <= 0 {
		limit = defaultMessageLimit
	}
	return uc.chatRepo.MessagesByChat(ctx, callerID, chatID, limit)
}

// MarkChatAsRead appends the caller to the readBy list of every unread
// message in their copy of the chat and zeroes the unread counter. Returns
// the number of messages updated.
func (uc *ChatUseCase) MarkChatAsRead(ctx context.Context, callerID, chatID string) (int, error) {
	chat, err := uc.chatRepo.GetChatCopy(ctx, callerID, chatID)
	if err != nil {
		return 0, err
	}

	messages, err := uc.chatRepo.MessagesByChat(ctx, callerID, chatID, 0)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, message := range messages {
		if message.ReadByUser(callerID) {
			continue
		}
		readBy := append(message.ReadBy, callerID)
		if err := uc.chatRepo.SetMessageReadBy(ctx, callerID, message.ID, readBy); err != nil {
			return 0, err
		}
		updated++
	}

	if err := uc.chatRepo.UpdateChatCopy(ctx, callerID, chat.ChatKey, map[string]interface{}{"unreadCount": 0}); err != nil {
		return 0, err
	}
	return updated, nil
}

// SearchUsers matches the query against usernames and emails,
// case-insensitively. Username matches rank before email-only matches; the
// caller is never included.
func (uc *ChatUseCase) SearchUsers(ctx context.Context, callerID, query string, limit int) ([]*entity.User, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 2 {
		return nil, errors.BadRequest("Search query must be at least 2 characters long", nil)
	}

	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var byUsername, byEmail []*entity.User
	for uid, user := range users {
		if uid == callerID {
			continue
		}
		switch {
		case strings.Contains(strings.ToLower(user.Username), q):
			byUsername = append(byUsername, user)
		case strings.Contains(strings.ToLower(user.Email), q):
			byEmail = append(byEmail, user)
		}
	}

	sortUsers(byUsername)
	sortUsers(byEmail)

	results := make([]*entity.User, 0, len(byUsername)+len(byEmail))
	results = append(results, byUsername...)
	results = append(results, byEmail...)
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func sortUsers(users []*entity.User) {
	sort.Slice(users, func(i, j int) bool {
		a := strings.ToLower(users[i].Username)
		b := strings.ToLower(users[j].Username)
		if a != b {
			return a < b
		}
		return users[i].UID < users[j].UID
	})
}
