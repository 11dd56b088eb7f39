package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spigell/resume-tailor/internal/utils"
	"go.uber.org/zap"
)

const (
	telegramAPIURL   = "https://api.telegram.org"
	telegramAttempts = 3
	telegramPause    = 3 * time.Second
	telegramTimeout  = 15 * time.Second
	parseMode        = "Markdown"
)

// Telegram sends messages through the Bot API sendMessage method.
type Telegram struct {
	token      string
	chatID     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	Attempts   int
	Pause      time.Duration
}

func NewTelegram(token, chatID string, logger *zap.Logger) (*Telegram, error) {
	token = strings.TrimSpace(token)
	chatID = strings.TrimSpace(chatID)
	if token == "" || chatID == "" {
		return nil, errors.New("telegram bot token and chat id are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Telegram{
		token:      token,
		chatID:     chatID,
		logger:     logger,
		HTTPClient: &http.Client{Timeout: telegramTimeout},
		APIURL:     telegramAPIURL,
		Attempts:   telegramAttempts,
		Pause:      telegramPause,
	}, nil
}

// Send tries up to Attempts times, pausing between failed attempts.
func (t *Telegram) Send(ctx context.Context, text string) error {
	attempts := t.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := utils.WaitFor(ctx, t.Pause); err != nil {
				return err
			}
		}

		lastErr = t.send(ctx, text)
		if lastErr == nil {
			t.logger.Debug("telegram message sent", zap.Int("attempt", attempt))
			return nil
		}

		t.logger.Warn("telegram send failed",
			zap.Int("attempt", attempt),
			zap.Int("attempts", attempts),
			zap.Error(lastErr),
		)
	}

	return fmt.Errorf("telegram send failed after %d attempts: %w", attempts, lastErr)
}

func (t *Telegram) send(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", text)
	form.Set("parse_mode", parseMode)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(t.APIURL, "/"), t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		// The error text contains the URL and with it the bot token.
		return errors.New(strings.ReplaceAll(err.Error(), t.token, "<token>"))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bad status: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}
