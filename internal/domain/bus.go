package domain

// MessageBus routes inbound links from the chat channel to the relay
// handler. Delivery back to the chat goes through Transport directly,
// since media uploads don't fit a fire-and-forget text bus.
type MessageBus interface {
	Publish(msg InboundLink)
	Subscribe() <-chan InboundLink
	Close()
}
