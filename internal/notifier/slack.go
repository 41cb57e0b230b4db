package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/amishk599/internscout/internal/model"
)

// Ensure SlackMessenger implements model.Messenger.
var _ model.Messenger = (*SlackMessenger)(nil)

// SlackMessenger sends opportunity alerts to a Slack channel via Incoming Webhooks.
type SlackMessenger struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackMessenger returns a messenger that posts each opportunity to Slack via webhook.
func NewSlackMessenger(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackMessenger {
	return &SlackMessenger{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Send posts one Block Kit message.
func (s *SlackMessenger) Send(ctx context.Context, o model.Opportunity) error {
	body, err := json.Marshal(buildPayload(o))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{StatusCode: resp.StatusCode, Err: fmt.Errorf("slack returned %d", resp.StatusCode)}
	}
	s.logger.Info("slack message sent", "company", o.Company, "title", o.Title)
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

func buildPayload(o model.Opportunity) slackPayload {
	company := o.Company
	if company == "" {
		company = "Unknown company"
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🚀 " + o.Title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Company:*\n" + company},
			},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Why it matches:*\n" + o.ReasonForMatch},
		},
		{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "Apply Now"},
					URL:   o.URL,
					Style: "primary",
				},
			},
		},
		{Type: "divider"},
	}

	// Text is the notification fallback for clients that do not render blocks.
	return slackPayload{Text: FormatMessage(o), Blocks: blocks}
}
