package connectors

import "ordersheet/internal"

// SheetSource fetches raw mail messages that may carry order sheets.
type SheetSource interface {
	FetchInbox(label string, max int) ([]internal.SheetMessage, error)
}
