package notifier

import (
	"fmt"

	"github.com/amishk599/internscout/internal/model"
)

// FormatMessage renders the human-readable alert for one opportunity.
func FormatMessage(o model.Opportunity) string {
	return fmt.Sprintf("🚀 New Career Opportunity!\n\nTitle: %s\nCompany: %s\nReason: %s\n\nApply Here: %s",
		o.Title, o.Company, o.ReasonForMatch, o.URL)
}
