package entity

// User is the display-facing slice of a user record. The same shape is read
// from Users/{uid}/profile and from the Users/{uid} root record; unknown
// child collections under the root node are ignored by decoding.
type User struct {
	UID       string `json:"uid"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}
