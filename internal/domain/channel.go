package domain

import "context"

// Channel is the interface for a user-facing chat surface (Telegram).
type Channel interface {
	Name() string
	Start(ctx context.Context, bus MessageBus) error
	Stop() error
}
