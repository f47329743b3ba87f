package dto

// MarkAllReadResponse reports how many notifications were flipped.
type MarkAllReadResponse struct {
	Updated int `json:"updated"`
}

// UnreadCountResponse carries the unread badge count.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
