package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusNew     InvoiceStatus = "new"
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusUnknown InvoiceStatus = "unknown"
)

// ParseInvoiceStatus normalizes CRM and store status strings. Splynx reports
// unpaid invoices as "not_paid".
func ParseInvoiceStatus(raw string) InvoiceStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "unpaid", "not_paid":
		return InvoiceStatusUnpaid
	case "paid":
		return InvoiceStatusPaid
	case "overdue":
		return InvoiceStatusOverdue
	case "new":
		return InvoiceStatusNew
	case "pending":
		return InvoiceStatusPending
	default:
		return InvoiceStatusUnknown
	}
}

// Open reports whether the invoice still expects a payment.
func (s InvoiceStatus) Open() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusPending || s == InvoiceStatusNew
}

func (s InvoiceStatus) LegacyLabel() string {
	switch s {
	case InvoiceStatusPaid:
		return "pagado"
	case InvoiceStatusOverdue:
		return "vencida"
	case InvoiceStatusNew:
		return "nueva"
	default:
		return "pendiente"
	}
}

type Invoice struct {
	ID                 string
	CustomerExternalID string
	Total              decimal.Decimal
	Status             InvoiceStatus
	CreatedAt          *time.Time
	DueAt              *time.Time
	BillingPeriod      string
}
