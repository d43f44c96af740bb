package entity

// Message types accepted by the ledger.
const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeFile     = "file"
	MessageTypeLocation = "location"
)

// ValidMessageType reports whether t is one of the accepted message types.
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile, MessageTypeLocation:
		return true
	}
	return false
}

// Message is duplicated under both participants' subtrees with the same
// generated id. The copies are content-identical at creation; only ReadBy
// diverges afterwards, since each participant appends only itself.
type Message struct {
	ID        string   `json:"id,omitempty"`
	ChatID    string   `json:"chatId"`
	SenderID  string   `json:"senderId"`
	Content   string   `json:"content"`
	Type      string   `json:"type"`
	Timestamp int64    `json:"timestamp"`
	ReadBy    []string `json:"readBy"`
}

// ReadByUser reports whether userID already appears in the read receipt list.
func (m *Message) ReadByUser(userID string) bool {
	for _, r := range m.ReadBy {
		if r == userID {
			return true
		}
	}
	return false
}
