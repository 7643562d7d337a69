package channel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"tikrelay/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	telegramPollTimeout = 30 // seconds, long-polling window
	// Upload window for media sends. Large files over slow links get
	// the full budget; anything slower fails the request.
	defaultSendTimeout = 60 * time.Second
)

// Telegram implements domain.Channel for inbound links and
// domain.Transport for status feedback and media delivery.
type Telegram struct {
	token       string
	allowFrom   []int64 // allowed user IDs (empty = allow all)
	sendTimeout time.Duration

	bot    *tgbotapi.BotAPI
	bus    domain.MessageBus
	logger *slog.Logger
}

type TelegramConfig struct {
	Token       string
	AllowFrom   []int64
	SendTimeout time.Duration
	Logger      *slog.Logger
}

func NewTelegram(cfg TelegramConfig) *Telegram {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	return &Telegram{
		token:       cfg.Token,
		allowFrom:   cfg.AllowFrom,
		sendTimeout: cfg.SendTimeout,
		logger:      cfg.Logger,
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Start connects to Telegram and begins polling for updates. It blocks
// until ctx is cancelled or the update channel closes.
func (t *Telegram) Start(ctx context.Context, bus domain.MessageBus) error {
	t.bus = bus

	bot, err := tgbotapi.NewBotAPI(t.token)
	if err != nil {
		return fmt.Errorf("telegram bot init: %w", err)
	}
	// The client timeout doubles as the outbound write budget; it must
	// stay above the long-poll window.
	bot.Client = &http.Client{Timeout: t.sendTimeout + telegramPollTimeout*time.Second}
	t.bot = bot
	t.logger.Info("telegram bot connected",
		"username", bot.Self.UserName,
		"id", bot.Self.ID,
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = telegramPollTimeout
	updates := bot.GetUpdatesChan(u)

	t.logger.Info("telegram polling started")

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("telegram channel stopping")
			bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(update)
		}
	}
}

// Stop is a no-op: the bot stops when Start's context is cancelled.
// StopReceivingUpdates panics when called twice.
func (t *Telegram) Stop() error {
	return nil
}

func (t *Telegram) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Chat == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !t.isAllowed(userID) {
		t.logger.Warn("unauthorized telegram user",
			"user_id", userID,
			"username", update.Message.From.UserName,
		)
		t.send(tgbotapi.NewMessage(chatID, "⛔ Unauthorized. Your user ID is not in the allow list."))
		return
	}

	if update.Message.IsCommand() {
		t.handleCommand(chatID, update.Message)
		return
	}

	text := update.Message.Text
	if text == "" {
		return
	}

	t.logger.Info("telegram message received",
		"user_id", userID,
		"chat_id", chatID,
		"text_len", len(text),
	)

	t.bus.Publish(domain.InboundLink{
		Channel:   "telegram",
		ChatID:    chatID,
		MessageID: update.Message.MessageID,
		SenderID:  userID,
		Text:      text,
		Timestamp: time.Unix(int64(update.Message.Date), 0),
	})
}

func (t *Telegram) handleCommand(chatID int64, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		t.send(tgbotapi.NewMessage(chatID, "👋 Hi! Send me a TikTok link and I'll fetch the video or photos for you."))
	case "help":
		t.send(tgbotapi.NewMessage(chatID, "📖 Paste any TikTok link (video, photo carousel, or vm.tiktok.com share link).\n\nVideos under 50 MB arrive playable inline; bigger or unusual files come as documents, and photo carousels as albums."))
	default:
		t.send(tgbotapi.NewMessage(chatID, "Unknown command. Type /help for usage."))
	}
}

func (t *Telegram) isAllowed(userID int64) bool {
	if len(t.allowFrom) == 0 {
		return true // empty list = allow all
	}
	for _, id := range t.allowFrom {
		if id == userID {
			return true
		}
	}
	return false
}

func (t *Telegram) send(c tgbotapi.Chattable) {
	if _, err := t.bot.Send(c); err != nil {
		t.logger.Error("telegram send failed", "err", err)
	}
}

// --- domain.Transport ---

// Reply sends a plain text reply to the given message.
func (t *Telegram) Reply(_ context.Context, chatID int64, replyTo int, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram reply: %w", err)
	}
	return nil
}

// ReplyStatus posts the status reply and returns the edit/delete handle.
func (t *Telegram) ReplyStatus(_ context.Context, chatID int64, replyTo int, text string) (domain.Status, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	sent, err := t.bot.Send(msg)
	if err != nil {
		return nil, fmt.Errorf("telegram status reply: %w", err)
	}
	return &telegramStatus{bot: t.bot, chatID: chatID, messageID: sent.MessageID}, nil
}

// SendVideo streams the file as an inline-playable video.
func (t *Telegram) SendVideo(_ context.Context, chatID int64, path string) error {
	if _, err := t.bot.Send(tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))); err != nil {
		return fmt.Errorf("telegram send video: %w", err)
	}
	return nil
}

// SendDocument streams the file as a generic document attachment.
func (t *Telegram) SendDocument(_ context.Context, chatID int64, path string) error {
	if _, err := t.bot.Send(tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))); err != nil {
		return fmt.Errorf("telegram send document: %w", err)
	}
	return nil
}

// SendPhotoGroup delivers the files as one album, preserving order.
func (t *Telegram) SendPhotoGroup(_ context.Context, chatID int64, paths []string) error {
	media := make([]interface{}, 0, len(paths))
	for _, p := range paths {
		media = append(media, tgbotapi.NewInputMediaPhoto(tgbotapi.FilePath(p)))
	}
	if _, err := t.bot.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, media)); err != nil {
		return fmt.Errorf("telegram send media group: %w", err)
	}
	return nil
}

// telegramStatus is the edit/delete handle for one status message.
type telegramStatus struct {
	bot       *tgbotapi.BotAPI
	chatID    int64
	messageID int
}

func (s *telegramStatus) Edit(_ context.Context, text string) error {
	edit := tgbotapi.NewEditMessageText(s.chatID, s.messageID, text)
	if _, err := s.bot.Request(edit); err != nil {
		return fmt.Errorf("telegram edit: %w", err)
	}
	return nil
}

func (s *telegramStatus) Delete(_ context.Context) error {
	del := tgbotapi.NewDeleteMessage(s.chatID, s.messageID)
	if _, err := s.bot.Request(del); err != nil {
		return fmt.Errorf("telegram delete: %w", err)
	}
	return nil
}
