// Package relay implements the request pipeline: link validation, URL
// normalization, workspace allocation, media fetch, result
// classification, and delivery back to the chat.
package relay

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tikrelay/internal/domain"
	"tikrelay/internal/metrics"
	"tikrelay/internal/tiktok"
	"tikrelay/internal/workspace"
)

const defaultSendTimeout = 60 * time.Second

// Handler orchestrates one request per inbound message. It owns the
// request lifecycle end to end and guarantees workspace teardown on
// every exit path.
type Handler struct {
	transport   domain.Transport
	fetcher     domain.Fetcher
	workspaces  *workspace.Manager
	sendTimeout time.Duration
	logger      *slog.Logger
}

// HandlerConfig wires the Handler's collaborators.
type HandlerConfig struct {
	Transport   domain.Transport
	Fetcher     domain.Fetcher
	Workspaces  *workspace.Manager
	SendTimeout time.Duration
	Logger      *slog.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	return &Handler{
		transport:   cfg.Transport,
		fetcher:     cfg.Fetcher,
		workspaces:  cfg.Workspaces,
		sendTimeout: cfg.SendTimeout,
		logger:      cfg.Logger,
	}
}

// Run consumes inbound links until the bus closes or ctx is cancelled.
// Each message is handled in its own goroutine; requests share no
// mutable state, so no coordination beyond the bus is needed.
func (h *Handler) Run(ctx context.Context, bus domain.MessageBus) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-bus.Subscribe():
			if !ok {
				return
			}
			go h.Handle(ctx, msg)
		}
	}
}

// Handle processes a single inbound message through the full pipeline.
// A failure here is contained: it is reported to the user, logged, and
// never propagates to other in-flight requests.
func (h *Handler) Handle(ctx context.Context, msg domain.InboundLink) {
	metrics.RequestsTotal.Inc()

	text := strings.TrimSpace(msg.Text)
	if !tiktok.HasLink(text) {
		metrics.RequestsRejected.Inc()
		if err := h.transport.Reply(ctx, msg.ChatID, msg.MessageID, msgInvalidLink); err != nil {
			h.logger.Error("rejection reply failed", "chat_id", msg.ChatID, "err", err)
		}
		return
	}

	url := tiktok.Normalize(text, h.logger)

	status, err := h.transport.ReplyStatus(ctx, msg.ChatID, msg.MessageID, msgProcessing)
	if err != nil {
		// No status handle; proceed anyway so the user still gets media.
		h.logger.Warn("status message send failed", "chat_id", msg.ChatID, "err", err)
		status = nopStatus{}
	}

	// Panic containment: one bad request must not take down the loop.
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic in request handler",
				"chat_id", msg.ChatID, "message_id", msg.MessageID, "panic", r)
			h.editStatus(ctx, status, msgGenericError)
		}
	}()

	ws, err := h.workspaces.Acquire(msg.ChatID, msg.MessageID)
	if err != nil {
		h.logger.Error("workspace acquire failed", "chat_id", msg.ChatID, "err", err)
		h.editStatus(ctx, status, msgGenericError)
		return
	}
	// Teardown is unconditional and never skipped because of a
	// secondary failure; a failed removal is logged, not raised, so it
	// cannot mask the outcome already reported to the user.
	defer func() {
		if err := ws.Release(); err != nil {
			h.logger.Error("workspace release failed", "err", err)
		}
	}()

	res := h.fetcher.Fetch(ctx, url, ws.Path())
	if res.Empty() {
		metrics.DownloadsFailed.Inc()
		h.editStatus(ctx, status, msgDownloadFailed)
		return
	}

	h.editStatus(ctx, status, msgSending)

	if err := h.deliver(ctx, msg.ChatID, res.Files); err != nil {
		metrics.DeliveriesFailed.Inc()
		h.logger.Error("delivery failed",
			"chat_id", msg.ChatID, "files", len(res.Files), "err", err)
		h.editStatus(ctx, status, msgGenericError)
		return
	}

	if err := status.Delete(ctx); err != nil {
		h.logger.Warn("status message delete failed", "chat_id", msg.ChatID, "err", err)
	}
}

// deliver classifies the fetched files and pushes them through the
// matching transport primitive under the send timeout budget.
func (h *Handler) deliver(ctx context.Context, chatID int64, files []string) error {
	shape, ordered, err := Classify(files)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, h.sendTimeout)
	defer cancel()

	switch shape {
	case ShapeVideo:
		err = h.transport.SendVideo(sendCtx, chatID, ordered[0])
	case ShapeDocument:
		err = h.transport.SendDocument(sendCtx, chatID, ordered[0])
	case ShapePhotoGroup:
		err = h.transport.SendPhotoGroup(sendCtx, chatID, ordered)
	}
	if err != nil {
		return err
	}

	metrics.DeliveriesTotal(shape.String()).Inc()
	h.logger.Info("media delivered", "chat_id", chatID, "shape", shape.String(), "files", len(ordered))
	return nil
}

// editStatus edits the status message, logging but otherwise ignoring
// transport errors (the message may already be gone).
func (h *Handler) editStatus(ctx context.Context, status domain.Status, text string) {
	if err := status.Edit(ctx, text); err != nil {
		h.logger.Warn("status message edit failed", "err", err)
	}
}

// nopStatus stands in when the initial status send failed.
type nopStatus struct{}

func (nopStatus) Edit(context.Context, string) error { return nil }
func (nopStatus) Delete(context.Context) error       { return nil }
