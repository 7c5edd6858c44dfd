package internal

// CatalogEntry is one row of the sheet's summary section: the canonical
// spelling of an item and its unit price, plus the summary quantity/amount
// columns when the sheet carries them.
type CatalogEntry struct {
	Name          string
	UnitPrice     float64
	SummaryQty    *float64
	SummaryAmount *float64
}

// ParsedItem is one line item segmented out of an order's content cell.
// Price is nil when no catalog match was found.
type ParsedItem struct {
	ItemID   string
	OrderID  string
	Name     string
	Quantity int
	Price    *float64
}

// ParsedOrder is one order row as produced by the sheet parser. Total is nil
// when at least one item has no resolved price. IsPaid and IsFulfilled are
// always false at parse time; the sheet does not carry them.
type ParsedOrder struct {
	OrderID       string
	Customer      string
	Total         *float64
	IsPaid        bool
	WantsDelivery bool
	IsFulfilled   bool
}

// Issue is a non-fatal parse problem recorded against one order.
type Issue struct {
	OrderID       string
	Customer      string
	Warning       string
	ContentSample string
}

// ChecklistRow is the denormalized order-attributes-joined-onto-items view
// used for export and display. Not load-bearing for correctness.
type ChecklistRow struct {
	OrderID        string
	Customer       string
	WantsDelivery  bool
	IsPaid         bool
	IsFulfilled    bool
	Total          *float64
	ItemID         string
	Name           string
	Quantity       int
	PackedQuantity int
	Price          *float64
	IsChecked      bool
}

// OrderRecord is the persisted order row, including the packing, payment and
// delivery state the store owns after import.
type OrderRecord struct {
	OrderID            string
	Customer           string
	Total              *float64
	IsPaid             bool
	WantsDelivery      bool
	IsFulfilled        bool
	IsDelivered        bool
	DeliveryAddress    *string
	DeliveryMiles      *float64
	DeliveryFee        *float64
	DeliveryComputedAt *string
	DeliverySource     *string
	AmountReceived     float64
	ChangeGiven        float64
	ChangeStatus       string
	CreatedAt          string
}

// ItemRecord is the persisted line item row.
type ItemRecord struct {
	ItemID         string
	OrderID        string
	Name           string
	Quantity       int
	Price          *float64
	IsChecked      bool
	PackedQuantity int
}

// InboxRow tracks one mailed-in sheet message and its import status.
type InboxRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

// SheetMessage is a raw mail message fetched from a mailbox, expected to
// carry an order sheet as an xlsx attachment.
type SheetMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}
