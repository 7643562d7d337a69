package channel

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestTelegram(allow []int64) *Telegram {
	return NewTelegram(TelegramConfig{
		Token:     "123:abc",
		AllowFrom: allow,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestIsAllowed_EmptyListAllowsAll(t *testing.T) {
	tg := newTestTelegram(nil)
	if !tg.isAllowed(42) {
		t.Fatal("empty allow list should allow everyone")
	}
}

func TestIsAllowed_ListedAndUnlisted(t *testing.T) {
	tg := newTestTelegram([]int64{10, 20})
	if !tg.isAllowed(20) {
		t.Fatal("listed user should be allowed")
	}
	if tg.isAllowed(30) {
		t.Fatal("unlisted user should be denied")
	}
}

func TestNewTelegram_DefaultSendTimeout(t *testing.T) {
	tg := newTestTelegram(nil)
	if tg.sendTimeout != 60*time.Second {
		t.Fatalf("got %v, want 60s default", tg.sendTimeout)
	}
}
