package notifier

import (
	"context"
	"log/slog"

	"github.com/amishk599/internscout/internal/model"
)

// Ensure LogMessenger implements model.Messenger.
var _ model.Messenger = (*LogMessenger)(nil)

// LogMessenger writes opportunities to the given logger as structured messages.
type LogMessenger struct {
	logger *slog.Logger
}

// NewLogMessenger returns a messenger that logs each opportunity via slog.
func NewLogMessenger(logger *slog.Logger) *LogMessenger {
	return &LogMessenger{logger: logger}
}

// Send logs company, title, reason and URL. It never fails.
func (n *LogMessenger) Send(_ context.Context, o model.Opportunity) error {
	n.logger.Info("new opportunity", "company", o.Company, "title", o.Title, "reason", o.ReasonForMatch, "url", o.URL)
	return nil
}
