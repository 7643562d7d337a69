package domain

import "time"

// InboundLink is one user message that may reference a TikTok resource.
// ChatID and MessageID double as the workspace key for the request, so
// the transport must guarantee they uniquely identify the message.
type InboundLink struct {
	Channel   string
	ChatID    int64
	MessageID int
	SenderID  int64
	Text      string
	Timestamp time.Time
}
