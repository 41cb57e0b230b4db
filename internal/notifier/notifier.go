// Package notifier delivers new opportunities through an outbound channel and
// records them in the ledger.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/internscout/internal/model"
)

// Notifier sends one message per opportunity, then commits every attempted
// id to the ledger regardless of delivery outcome.
type Notifier struct {
	messenger model.Messenger
	ledger    model.Ledger
	pause     time.Duration
	logger    *slog.Logger
}

// New returns a Notifier. pause is the gap between consecutive messages.
func New(messenger model.Messenger, ledger model.Ledger, pause time.Duration, logger *slog.Logger) *Notifier {
	return &Notifier{
		messenger: messenger,
		ledger:    ledger,
		pause:     pause,
		logger:    logger,
	}
}

// Notify sends every opportunity and appends their ids to the ledger.
// It returns the attempted ids; the error is non-nil only when the ledger
// could not be persisted.
func (n *Notifier) Notify(ctx context.Context, opps []model.Opportunity) ([]string, error) {
	attempted := make([]string, 0, len(opps))
	failures := 0

	for i, o := range opps {
		if i > 0 && n.pause > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(n.pause):
			}
		}

		if err := n.messenger.Send(ctx, o); err != nil {
			n.logger.Error("notification failed", "company", o.Company, "title", o.Title, "url", o.URL, "error", err)
			failures++
		}
		attempted = append(attempted, o.ID)
	}

	if len(opps) > 0 {
		n.logger.Info("notifications complete", "sent", len(opps)-failures, "failed", failures)
	}

	if err := n.ledger.Append(attempted); err != nil {
		return attempted, fmt.Errorf("persist ledger: %w", err)
	}
	return attempted, nil
}

// SendTestMessage sends a dummy opportunity to verify the integration works.
// It does not touch any ledger.
func SendTestMessage(ctx context.Context, m model.Messenger) error {
	return m.Send(ctx, model.Opportunity{
		ID:             "https://internshala.com/internships",
		Title:          "Test Notification",
		Company:        "internscout",
		ReasonForMatch: "Integration check, no action needed.",
		URL:            "https://internshala.com/internships",
	})
}
