package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/amishk599/internscout/internal/model"
)

// DefaultTelegramBaseURL is the Bot API root.
const DefaultTelegramBaseURL = "https://api.telegram.org"

// Ensure TelegramMessenger implements model.Messenger.
var _ model.Messenger = (*TelegramMessenger)(nil)

// TelegramMessenger posts each opportunity to a chat through the Bot API.
type TelegramMessenger struct {
	baseURL    string
	botToken   string
	chatID     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTelegramMessenger returns a messenger for one chat. Empty credentials
// are allowed: Send then does nothing.
func NewTelegramMessenger(baseURL, botToken, chatID string, httpClient *http.Client, logger *slog.Logger) *TelegramMessenger {
	if baseURL == "" {
		baseURL = DefaultTelegramBaseURL
	}
	return &TelegramMessenger{
		baseURL:    strings.TrimRight(baseURL, "/"),
		botToken:   botToken,
		chatID:     chatID,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Configured reports whether both bot token and chat id are present.
func (t *TelegramMessenger) Configured() bool {
	return t.botToken != "" && t.chatID != ""
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers one plain-text message.
func (t *TelegramMessenger) Send(ctx context.Context, o model.Opportunity) error {
	if !t.Configured() {
		t.logger.Warn("telegram credentials missing, skipping message", "url", o.URL)
		return nil
	}

	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", FormatMessage(o))
	form.Set("disable_web_page_preview", "true")

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		// url.Error would print the token-bearing URL.
		return fmt.Errorf("post to telegram: %w", redactToken(err, t.botToken))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read telegram response: %w", err)
	}

	var tr telegramResponse
	_ = json.Unmarshal(body, &tr)

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{StatusCode: resp.StatusCode, Err: fmt.Errorf("telegram: %s", tr.Description)}
	}
	if !tr.OK {
		return fmt.Errorf("telegram rejected message: %s", tr.Description)
	}

	t.logger.Info("telegram message sent", "company", o.Company, "title", o.Title)
	return nil
}

func redactToken(err error, token string) error {
	if token == "" {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), token, "<redacted>"))
}
