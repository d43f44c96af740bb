package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalChatKey(t *testing.T) {
	assert.Equal(t, "alice_bob", CanonicalChatKey("alice", "bob"))
	assert.Equal(t, "alice_bob", CanonicalChatKey("bob", "alice"))
	assert.Equal(t, "user1_user2", CanonicalChatKey("user2", "user1"))
}

func TestSplitChatKey(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		want   []string
		wantOK bool
	}{
		{"canonical", "alice_bob", []string{"alice", "bob"}, true},
		{"legacy unsorted", "bob_alice", []string{"bob", "alice"}, true},
		{"legacy leading separator", "_alice_bob", []string{"alice", "bob"}, true},
		{"single segment", "alice", nil, false},
		{"three segments", "a_b_c", nil, false},
		{"empty segment", "alice_", nil, false},
		{"identical segments", "alice_alice", nil, false},
		{"empty", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, ok := SplitChatKey(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, parts)
		})
	}
}

func TestChatParticipants(t *testing.T) {
	chat := &Chat{ChatKey: "alice_bob", Participants: []string{"alice", "bob"}}

	assert.Equal(t, "bob", chat.OtherParticipant("alice"))
	assert.Equal(t, "alice", chat.OtherParticipant("bob"))
	assert.True(t, chat.HasParticipant("alice"))
	assert.False(t, chat.HasParticipant("carol"))
}

func TestValidMessageType(t *testing.T) {
	for _, typ := range []string{"text", "image", "file", "location"} {
		assert.True(t, ValidMessageType(typ), typ)
	}
	assert.False(t, ValidMessageType("video"))
	assert.False(t, ValidMessageType(""))
	assert.False(t, ValidMessageType("TEXT"))
}

func TestMessageReadByUser(t *testing.T) {
	msg := &Message{ReadBy: []string{"alice"}}

	assert.True(t, msg.ReadByUser("alice"))
	assert.False(t, msg.ReadByUser("bob"))
	assert.False(t, (&Message{}).ReadByUser("alice"))
}
