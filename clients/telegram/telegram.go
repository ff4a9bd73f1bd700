package telegram

import (
	"bytes"
	"encoding/json"
	"examwatch/clients/notifier"
	"examwatch/config"
	"examwatch/internal/detection"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const telegramAPIURL = "%s/bot%s/%s"

// TelegramClient sends alerts to Telegram.
// Implements notifier.Notifier interface.
type TelegramClient struct {
	logger   *zap.Logger
	apiBase  string
	botToken string
	chatID   string
	isProd   bool
	client   *http.Client
}

func NewTelegramClient(logger *zap.Logger, cfg *config.Config) *TelegramClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	chatID := cfg.Telegram.BetaChatID
	if cfg.IsProd {
		chatID = cfg.Telegram.ProdChatID
	}

	token := cfg.Telegram.BotToken
	if token == "" {
		logger.Warn("TELEGRAM_BOT_KEY not set, Telegram alerts disabled")
		return &TelegramClient{
			logger: logger,
			chatID: chatID,
			isProd: cfg.IsProd,
		}
	}

	logger.Info("telegram bot initialized",
		zap.Bool("isProd", cfg.IsProd),
		zap.String("chatID", chatID),
	)

	return &TelegramClient{
		logger:   logger,
		apiBase:  "https://api.telegram.org",
		botToken: token,
		chatID:   chatID,
		isProd:   cfg.IsProd,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether the client can send messages.
func (tc *TelegramClient) Enabled() bool {
	return tc.botToken != "" && tc.chatID != ""
}

// SendDetectionAlert sends a detection alert notification.
// Implements notifier.Notifier interface.
func (tc *TelegramClient) SendDetectionAlert(alert notifier.DetectionAlert) {
	if !tc.Enabled() {
		tc.logger.Debug("telegram not configured, skipping alert")
		return
	}

	message := tc.buildAlertMessage(alert)

	if err := tc.sendMessage(message); err != nil {
		tc.logger.Error("failed to send telegram message", zap.Error(err))
		return
	}

	tc.logger.Info("sent telegram detection alert",
		zap.String("category", string(alert.Category)),
		zap.String("confidence", alert.Percent()),
	)
}

func (tc *TelegramClient) buildAlertMessage(alert notifier.DetectionAlert) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s *%s*\n\n", alert.Icon, escapeMarkdown(alert.Label)))
	sb.WriteString(fmt.Sprintf("*Confidence:* %s\n", alert.Percent()))

	ts := alert.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	sb.WriteString(fmt.Sprintf("*Time:* %s %s\n", detection.FormatDate(ts), detection.FormatTime(ts)))
	sb.WriteString(fmt.Sprintf("*Session Total:* %d\n", alert.SessionTotal))

	if alert.SnapshotURL != "" {
		sb.WriteString(fmt.Sprintf("*Snapshot:* [%s](%s)\n", escapeMarkdown(alert.SnapshotName), alert.SnapshotURL))
	}

	if alert.SessionID != "" {
		sb.WriteString(fmt.Sprintf("\n_examwatch • %s_", escapeMarkdown(alert.SessionID)))
	}

	return sb.String()
}

func (tc *TelegramClient) sendMessage(text string) error {
	url := fmt.Sprintf(telegramAPIURL, tc.apiBase, tc.botToken, "sendMessage")

	payload := map[string]interface{}{
		"chat_id":    tc.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}

	resp, err := tc.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}

// Close cleans up resources. Implements notifier.Notifier interface.
func (tc *TelegramClient) Close() error {
	return nil
}

// escapeMarkdown escapes special characters for Telegram Markdown.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
