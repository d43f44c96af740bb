package entity

const (
	NotificationTypeNewMessage     = "new_message"
	NotificationTypeFriendRequest  = "friend_request"
	NotificationTypeFriendAccepted = "friend_accepted"
)

// Notification lives only under its recipient's subtree; it is the one
// record in the system that never needs a second copy.
type Notification struct {
	ID        string                 `json:"id,omitempty"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      string                 `json:"type"`
	Read      bool                   `json:"read"`
	CreatedAt int64                  `json:"createdAt"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
