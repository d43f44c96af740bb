package entity

import "strings"

// Chat is one physical copy of a two-party conversation. The same logical
// chat is stored once under each participant's own subtree; the copies must
// agree on Participants but may transiently diverge on LastMessage and
// UnreadCount while a send is in flight.
type Chat struct {
	ChatKey         string   `json:"chatKey"`
	Participants    []string `json:"participants"`
	LastMessage     string   `json:"lastMessage,omitempty"`
	LastMessageTime int64    `json:"lastMessageTime,omitempty"`
	UnreadCount     int      `json:"unreadCount"`
	CreatedAt       int64    `json:"createdAt"`
}

// CanonicalChatKey derives the order-independent chat identifier for a pair
// of user ids: the lexicographically sorted ids joined with "_".
func CanonicalChatKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

// SplitChatKey recovers the participant pair from a chat key. Legacy keys
// were written unsorted and occasionally with a leading separator, so
// normalization happens here and nowhere else: strip a leading "_", split on
// "_", and require exactly two distinct non-empty segments.
func SplitChatKey(chatKey string) ([]string, bool) {
	key := strings.TrimPrefix(chatKey, "_")
	parts := strings.Split(key, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || parts[0] == parts[1] {
		return nil, false
	}
	return parts, true
}

// OtherParticipant returns the participant that is not userID.
func (c *Chat) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// HasParticipant reports whether userID is one of the chat's participants.
func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
