package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentRequest struct {
	FiscalIdentifier      string
	InvoiceReference      string
	Amount                decimal.Decimal
	Description           string
	ChannelLabel          string
	ExternalTransactionID string
}

// PaymentAccepted is the successful half of a payment outcome. PostedTransactionID
// is nil when the CRM does not echo an id back.
type PaymentAccepted struct {
	CustomerExternalID  string
	FiscalIdentifier    string
	PostedTransactionID *string
	InvoiceID           string
	Amount              decimal.Decimal
	Timestamp           time.Time
}
