package domain

import "context"

// Status is a handle to the per-request feedback message posted while a
// link is being processed. Edit and Delete failures are advisory: the
// orchestrator logs them and carries on.
type Status interface {
	Edit(ctx context.Context, text string) error
	Delete(ctx context.Context) error
}

// Transport exposes the delivery primitives of the chat platform.
// Media sends stream the file at path in place; callers keep the file
// on disk until the call returns.
type Transport interface {
	// Reply sends a plain text reply to the given message.
	Reply(ctx context.Context, chatID int64, replyTo int, text string) error
	// ReplyStatus sends a text reply and returns a handle for later
	// edits and deletion.
	ReplyStatus(ctx context.Context, chatID int64, replyTo int, text string) (Status, error)
	SendVideo(ctx context.Context, chatID int64, path string) error
	SendDocument(ctx context.Context, chatID int64, path string) error
	// SendPhotoGroup delivers the files as a single grouped album, in
	// the order given.
	SendPhotoGroup(ctx context.Context, chatID int64, paths []string) error
}
