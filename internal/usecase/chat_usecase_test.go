package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "tripmate/internal/adapter/repository"
	"tripmate/internal/domain/entity"
	"tripmate/internal/domain/repository"
	"tripmate/pkg/errors"
)

type chatFixture struct {
	store            *adapter.MemoryStore
	chatRepo         repository.ChatRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	uc               *ChatUseCase
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	store := adapter.NewMemoryStore()
	f := &chatFixture{
		store:            store,
		chatRepo:         adapter.NewRTDBChatRepository(store),
		userRepo:         adapter.NewRTDBUserRepository(store),
		notificationRepo: adapter.NewRTDBNotificationRepository(store),
	}
	f.uc = NewChatUseCase(f.chatRepo, f.userRepo, f.notificationRepo)
	return f
}

func (f *chatFixture) seedUser(t *testing.T, uid, username, email string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Update(ctx, "Users/"+uid, map[string]interface{}{
		"uid":      uid,
		"username": username,
		"email":    email,
	}))
	require.NoError(t, f.store.Set(ctx, "Users/"+uid+"/profile", &entity.User{
		UID:      uid,
		Username: username,
		Email:    email,
	}))
}

func TestGetOrCreateChatCreatesBothCopies(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	f.seedUser(t, "alice", "Alice", "alice@example.com")
	f.seedUser(t, "bob", "Bob", "bob@example.com")

	result, err := f.uc.GetOrCreateChat(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, result.Existing)
	assert.Equal(t, "alice_bob", result.Chat.ChatKey)
	assert.Equal(t, []string{"alice", "bob"}, result.Chat.Participants)

	for _, owner := range []string{"alice", "bob"} {
		stored, err := f.chatRepo.GetChatCopy(ctx, owner, "alice_bob")
		require.NoError(t, err, owner)
		assert.Equal(t, result.Chat.Participants, stored.Participants)
	}
}

func TestGetOrCreateChatIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	first, err := f.uc.GetOrCreateChat(ctx, "alice", "bob")
	require.NoError(t, err)
	require.False(t, first.Existing)

	second, err := f.uc.GetOrCreateChat(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, second.Existing)
	assert.Equal(t, first.Chat.ChatKey, second.Chat.ChatKey)

	// Same logical chat regardless of who initiates.
	third, err := f.uc.GetOrCreateChat(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, third.Existing)
	assert.Equal(t, "alice_bob", third.Chat.ChatKey)
}

func TestGetOrCreateChatRejectsSelf(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.uc.GetOrCreateChat(context.Background(), "alice", "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestGetOrCreateChatReusesLegacyKeyedChat(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	legacy := &entity.Chat{
		ChatKey:      "bob_alice",
		Participants: []string{"alice", "bob"},
		CreatedAt:    1,
	}
	require.NoError(t, f.chatRepo.SaveChatCopy(ctx, "alice", legacy))

	result, err := f.uc.GetOrCreateChat(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, result.Existing)
	assert.Equal(t, "bob_alice", result.Chat.ChatKey)
}

func TestSendMessageWritesIdenticalCopies(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	f.seedUser(t, "alice", "Alice", "alice@example.com")
	f.seedUser(t, "bob", "Bob", "bob@example.com")

	_, err := f.uc.GetOrCreateChat(ctx, "alice", "bob")
	require.NoError(t, err)

	message, err := f.uc.SendMessage(ctx, "alice", SendMessageInput{
		ChatID:  "alice_bob",
		Content: "hello",
		Type:    entity.MessageTypeText,
	})
	require.NoError(t, err)
	require.NotEmpty(t, message.ID)
	assert.Equal(t, []string{"alice"}, message.ReadBy)

	for _, owner := range []string{"alice", "bob"} {
		copies, err := f.chatRepo.MessagesByChat(ctx, owner, "alice_bob", 0)
		require.NoError(t, err, owner)
		require.Len(t, copies, 1, owner)
		assert.Equal(t, message.ID, copies[0].ID)
		assert.Equal(t, "hello", copies[0].Content)
		assert.Equal(t, "alice", copies[0].SenderID)
	}
}

func TestSendMessageUpdatesUnreadCounts(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	f.seedUser(t, "alice", "Alice", "alice@example.com")
	f.seedUser(t, "bob", "Bob", "bob@example.com")

	_, err := f.uc.GetOrCreateChat(ctx, "alice", "bob")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := f.uc.SendMessage(ctx, "alice", SendMessageInput{
			ChatID:  "alice_bob",
			Content: fmt.Sprintf("message %d", i),
			Type:    entity.MessageTypeText,
		})
		require.NoError(t, err)
	}

	senderCopy, err := f.chatRepo.GetChatCopy(ctx, "alice", "alice_bob")
	require.NoError(t, err)
	assert.Equal(t, 0, senderCopy.UnreadCount)
	assert.Equal(t, "message 1", senderCopy.LastMessage)

	recipientCopy, err := f.chatRepo.GetChatCopy(ctx, "bob", "alice_bob")
	require.NoError(t, err)
	assert.Equal(t, 2, recipientCopy.UnreadCount)
	assert.Equal(t, "message 1", recipientCopy.LastMessage)
}

func TestSendMessageRejectsInvalidType(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.uc.SendMessage(context.Background(), "alice", SendMessageInput{
		ChatID:  "alice_bob",
		Content: "hello",
		Type:    "video",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSendMessageHealsMissingChat(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	f.seedUser(t, "alice", "Alice", "alice@example.com")
	f.seedUser(t, "bob", "Bob", "bob@example.com")

	// No chat record exists anywhere, but the participants are inferable
	// from the id, legacy leading separator included.
	message, err := f.uc.SendMessage(ctx, "alice", SendMessageInput{
		ChatID:  "_bob_alice",
		Content: "anyone there?",
		Type:    entity.MessageTypeText,
	})
	require.NoError(t, err)
	assert.Equal(t, "_bob_alice", message.ChatID)

	for _, owner := range []string{"alice", "bob"} {
		chat, err := f.chatRepo.GetChatCopy(ctx, owner, "_bob_alice")
		require.NoError(t, err, owner)
		assert.ElementsMatch(t, []string{"alice", "bob"}, chat.Participants)
	}
}

func TestSendMessageFailsWhenChatUnrecoverable(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	// Participants not inferable from the id.
	_, err := f.uc.SendMessage(ctx, "alice", SendMessageInput{
		ChatID:  "ghost",
		Content: "hello",
		Type:    entity.MessageTypeText,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	// Sender is not one of the inferable participants.
	_, err = f.uc.SendMessage(ctx, "alice", SendMessageInput{
		ChatID:  "bob_carol",
		Content: "hello",
		Type:    entity.MessageTypeText,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessageNotifiesRecipient(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	f.seedUser(t, "alice", "Alice", "alice@example.com")
	f.seedUser(t, "bob", "Bob", "bob@example.com")

	_, err := f.uc.GetOrCreateChat(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = f.uc.SendMessage(ctx, "alice", SendMessageInput{
		ChatID:  "alice_bob",
		Content: "hello",
		Type:    entity.MessageTypeText,
	})
	require.NoError(t, err)

	notifications, err := f.notificationRepo.ListByUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationTypeNewMessage, notifications[0].Type)
	assert.Equal(t, "Alice: hello", notifications[0].Message)
	assert.False(t, notifications[0].Read)
}

func TestSendMessageFallsBackToSenderIDWhenResolutionDegrades(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	// alice has no user record at all; display resolution synthesizes.

	_, err := f.uc.SendMessage(ctx, "alice", SendMessageInput{
		ChatID:  "alice_bob",
		Content: "hello",
		Type:    entity.MessageTypeText,
	})
	require.NoError(t, err)

	notifications, err := f.notificationRepo.ListByUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "alice: hello", notifications[0].Message)
}

func TestSendMessageSurfacesSecondCopyFailure(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	_, err := f.uc.GetOrCreateChat(ctx, "alice", "bob")
	require.NoError(t, err)

	f.store.SetHook = func(path string) error {
		if path == "Users/bob/messages/-K000000000001" {
			return fmt.Errorf("store down")
		}
		return nil
	}

	_, err = f.uc.SendMessage(ctx, "alice", SendMessageInput{
		ChatID:  "alice_bob",
		Content: "hello",
		Type:    entity.MessageTypeText,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UNAVAILABLE"))

	// The sender's copy was already written; the orphan stays until a
	// later send overwrites the divergence.
	f.store.SetHook = nil
	senderCopies, err := f.chatRepo.MessagesByChat(ctx, "alice", "alice_bob", 0)
	require.NoError(t, err)
	assert.Len(t, senderCopies, 1)
}

func TestListMessagesUnknownChatIsEmpty(t *testing.T) {
	f := newChatFixture(t)

	messages, err := f.uc.ListMessages(context.Background(), "alice", "alice_bob", 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestListMessagesOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	_, err := f.uc.GetOrCreateChat(ctx, "alice", "bob")
	require.NoError(t, err)

	for i, ts := range []int64{300, 100, 200} {
		require.NoError(t, f.chatRepo.SaveMessageCopy(ctx, "alice", &entity.Message{
			ID:        fmt.Sprintf("m%d", i),
			ChatID:    "alice_bob",
			SenderID:  "bob",
			Content:   fmt.Sprintf("at %d", ts),
			Type:      entity.MessageTypeText,
			Timestamp: ts,
			ReadBy:    []string{"bob"},
		}))
	}

	messages, err := f.uc.ListMessages(ctx, "alice", "alice_bob", 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, int64(200), messages[0].Timestamp)
	assert.Equal(t, int64(300), messages[1].Timestamp)
}

func TestListMessagesScanFallbackMatchesIndexedPath(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	_, err := f.uc.GetOrCreateChat(ctx, "alice", "bob")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := f.uc.SendMessage(ctx, "alice", SendMessageInput{
			ChatID:  "alice_bob",
			Content: fmt.Sprintf("message %d", i),
			Type:    entity.MessageTypeText,
		})
		require.NoError(t, err)
	}

	indexed, err := f.uc.ListMessages(ctx, "alice", "alice_bob", 0)
	require.NoError(t, err)

	f.store.FailQueries = true
	scanned, err := f.uc.ListMessages(ctx, "alice", "alice_bob", 0)
	require.NoError(t, err)

	assert.Equal(t, indexed, scanned)
}

func TestMarkChatAsRead(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	_, err := f.uc.GetOrCreateChat(ctx, "alice", "bob")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := f.uc.SendMessage(ctx, "alice", SendMessageInput{
			ChatID:  "alice_bob",
			Content: fmt.Sprintf("message %d", i),
			Type:    entity.MessageTypeText,
		})
		require.NoError(t, err)
	}

	updated, err := f.uc.MarkChatAsRead(ctx, "bob", "alice_bob")
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	messages, err := f.chatRepo.MessagesByChat(ctx, "bob", "alice_bob", 0)
	require.NoError(t, err)
	for _, message := range messages {
		assert.True(t, message.ReadByUser("bob"))
		assert.True(t, message.ReadByUser("alice"))
	}

	chat, err := f.chatRepo.GetChatCopy(ctx, "bob", "alice_bob")
	require.NoError(t, err)
	assert.Equal(t, 0, chat.UnreadCount)

	// Second pass has nothing left to update and still succeeds.
	updated, err = f.uc.MarkChatAsRead(ctx, "bob", "alice_bob")
	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	// The sender's copies are untouched; read receipts are per owner.
	senderMessages, err := f.chatRepo.MessagesByChat(ctx, "alice", "alice_bob", 0)
	require.NoError(t, err)
	for _, message := range senderMessages {
		assert.False(t, message.ReadByUser("bob"))
	}
}

func TestMarkChatAsReadUnknownChat(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.uc.MarkChatAsRead(context.Background(), "alice", "alice_bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestListChatsSortedByActivity(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	f.seedUser(t, "bob", "Bob", "bob@example.com")
	f.seedUser(t, "carol", "Carol", "carol@example.com")

	_, err := f.uc.GetOrCreateChat(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = f.uc.GetOrCreateChat(ctx, "alice", "carol")
	require.NoError(t, err)

	require.NoError(t, f.chatRepo.UpdateChatCopy(ctx, "alice", "alice_bob", map[string]interface{}{"lastMessageTime": int64(100)}))
	require.NoError(t, f.chatRepo.UpdateChatCopy(ctx, "alice", "alice_carol", map[string]interface{}{"lastMessageTime": int64(200)}))

	chats, err := f.uc.ListChats(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "alice_carol", chats[0].ChatKey)
	assert.Equal(t, "Carol", chats[0].OtherUser.Username)
	assert.Equal(t, "alice_bob", chats[1].ChatKey)
	assert.Equal(t, "Bob", chats[1].OtherUser.Username)
}

func TestSearchUsersQueryTooShort(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.uc.SearchUsers(context.Background(), "alice", "b", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = f.uc.SearchUsers(context.Background(), "alice", "  b  ", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSearchUsersRanksUsernameMatchesFirst(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	f.seedUser(t, "alice", "Alice", "alice@example.com")
	f.seedUser(t, "bob", "Bobby", "bob@example.com")
	f.seedUser(t, "carol", "Carol", "bobfan@example.com")
	f.seedUser(t, "dave", "Dave", "dave@example.com")

	users, err := f.uc.SearchUsers(ctx, "alice", "bob", 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[0].UID)   // username match ranks first
	assert.Equal(t, "carol", users[1].UID) // email-only match

	// The caller never appears in results.
	users, err = f.uc.SearchUsers(ctx, "alice", "alice", 0)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSearchUsersAppliesLimit(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	for i := 0; i < 5; i++ {
		uid := fmt.Sprintf("user%d", i)
		f.seedUser(t, uid, fmt.Sprintf("Traveler%d", i), uid+"@example.com")
	}

	users, err := f.uc.SearchUsers(ctx, "alice", "traveler", 3)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}
