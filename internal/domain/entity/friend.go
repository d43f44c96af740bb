package entity

// Friend request lifecycle: pending -> accepted | rejected. Rejected
// requests are deleted outright, so only pending and accepted are persisted.
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
)

// FriendRequest is stored canonically under FriendRequests/{id} with two
// denormalized shadow copies: outgoingFriendRequests under the sender and
// incomingFriendRequests under the recipient.
type FriendRequest struct {
	ID         string `json:"id"`
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	Message    string `json:"message,omitempty"`
	Status     string `json:"status"`
	CreatedAt  int64  `json:"createdAt"`
	ResolvedAt int64  `json:"resolvedAt,omitempty"`
}

// Friend is one direction of a friendship edge. The edge is stored twice,
// Users/{A}/friends/{B} and Users/{B}/friends/{A}, and must stay symmetric.
type Friend struct {
	UID     string `json:"uid"`
	AddedAt int64  `json:"addedAt"`
}

// Relationship status between two users as reported by the status check.
const (
	FriendStatusNone            = "none"
	FriendStatusFriends         = "friends"
	FriendStatusPendingSent     = "pending_sent"
	FriendStatusPendingReceived = "pending_received"
)
