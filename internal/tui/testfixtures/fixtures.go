package testfixtures

import (
	"time"

	"github.com/mark3labs/mailman/internal/mergetemplate"
)

// Fixed test values for consistent output
const (
	FixedOwner = "ops@example.com"
)

var (
	FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
)

// Clock returns a clock stuck at FixedTime.
func Clock() func() time.Time {
	return func() time.Time { return FixedTime }
}

// NewsletterConfig returns a plain document merge.
func NewsletterConfig() mergetemplate.Config {
	return mergetemplate.Config{
		MergeData: mergetemplate.MergeData{
			Title:     "Monthly newsletter",
			Sheet:     "Contacts",
			HeaderRow: "1",
			Type:      mergetemplate.TypeDocument,
			Data: mergetemplate.Data{
				To:         "<<Email>>",
				Subject:    "News for <<Name>>",
				DocumentID: "1AbC-newsletter",
			},
		},
	}
}

// InvoiceConfig returns a merge restricted by a condition.
func InvoiceConfig() mergetemplate.Config {
	return mergetemplate.Config{
		MergeData: mergetemplate.MergeData{
			Title:       "Overdue invoices",
			Sheet:       "Invoices",
			HeaderRow:   "2",
			Conditional: mergetemplate.Conditional("<<Status>> == overdue"),
			Type:        mergetemplate.TypeDocument,
			Data: mergetemplate.Data{
				To:         "<<Billing Email>>",
				CC:         "billing@example.com",
				Subject:    "Invoice <<Number>> is overdue",
				DocumentID: "1XyZ-invoice",
			},
		},
	}
}

// Configs returns every sample configuration in a stable order.
func Configs() []mergetemplate.Config {
	return []mergetemplate.Config{NewsletterConfig(), InvoiceConfig()}
}
