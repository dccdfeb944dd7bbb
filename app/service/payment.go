package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/factory"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/splynx"
	"github.com/vibast-solutions/ms-go-billing-gateway/config"
)

// mismatchTolerance is the largest amount difference that is not reported.
var mismatchTolerance = decimal.NewFromFloat(0.01)

type customerResolver interface {
	Resolve(ctx context.Context, rawFiscalID string) (*entity.Customer, error)
}

type invoiceLister interface {
	ListForCustomer(ctx context.Context, customer *entity.Customer) ([]entity.Invoice, error)
}

type paymentSubmitter interface {
	CreatePayment(ctx context.Context, record splynx.PaymentRecord) (*string, error)
	CreateTransaction(ctx context.Context, record splynx.TransactionRecord) (*string, error)
}

// PaymentPoster validates a payment and records it in the CRM. Submissions
// are not deduplicated: every accepted call creates a new CRM record.
type PaymentPoster struct {
	resolver  customerResolver
	invoices  invoiceLister
	submitter paymentSubmitter
	cfg       config.PaymentsConfig
	now       func() time.Time
	logger    logrus.FieldLogger
}

func NewPaymentPoster(resolver customerResolver, invoices invoiceLister, submitter paymentSubmitter, cfg config.PaymentsConfig) *PaymentPoster {
	if cfg.SystemLabel == "" {
		cfg.SystemLabel = "BancoEstado"
	}
	return &PaymentPoster{
		resolver:  resolver,
		invoices:  invoices,
		submitter: submitter,
		cfg:       cfg,
		now:       time.Now,
		logger:    factory.NewModuleLogger("payment-poster"),
	}
}

func (p *PaymentPoster) Post(ctx context.Context, req entity.PaymentRequest) (*entity.PaymentAccepted, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	customer, err := p.resolver.Resolve(ctx, req.FiscalIdentifier)
	if err != nil {
		return nil, err
	}

	invoices, err := p.invoices.ListForCustomer(ctx, customer)
	if err != nil {
		return nil, err
	}
	invoice := SelectForPayment(invoices, req.InvoiceReference)
	if invoice == nil {
		return nil, ErrNoInvoices
	}

	l := p.logger.
		WithField("customer_id", customer.ExternalID).
		WithField("invoice_id", invoice.ID).
		WithField("transaction", req.ExternalTransactionID)

	if invoice.Total.IsPositive() && req.Amount.Sub(invoice.Total).Abs().GreaterThan(mismatchTolerance) {
		l.WithField("amount", req.Amount.String()).
			WithField("invoice_total", invoice.Total.String()).
			Warn("Payment amount does not match invoice total")
	}

	now := p.now()
	postedID, err := p.submit(ctx, customer, invoice, req, now)
	if err != nil {
		l.WithError(err).Error("CRM rejected payment")
		return nil, err
	}

	l.WithField("posted_id", derefString(postedID)).Info("Payment posted")
	return &entity.PaymentAccepted{
		CustomerExternalID:  customer.ExternalID,
		FiscalIdentifier:    entity.NormalizeFiscalID(req.FiscalIdentifier),
		PostedTransactionID: postedID,
		InvoiceID:           invoice.ID,
		Amount:              req.Amount,
		Timestamp:           now,
	}, nil
}

func (p *PaymentPoster) submit(ctx context.Context, customer *entity.Customer, invoice *entity.Invoice, req entity.PaymentRequest, now time.Time) (*string, error) {
	comment := p.comment(req)
	invoiceID := numericOrEmpty(invoice.ID)

	if p.cfg.PostingMode == config.PostingModeTransactions {
		return p.submitter.CreateTransaction(ctx, splynx.TransactionRecord{
			CustomerID:  customer.ExternalID,
			InvoiceID:   invoiceID,
			Type:        "debit",
			Quantity:    1,
			Price:       req.Amount.String(),
			TaxPercent:  strconv.FormatFloat(p.cfg.TaxPercent, 'f', -1, 64),
			Category:    p.cfg.TransactionCategory,
			Date:        now.Format("2006-01-02"),
			Description: comment,
			Comment:     p.memo(req),
			Source:      "manual",
		})
	}

	return p.submitter.CreatePayment(ctx, splynx.PaymentRecord{
		CustomerID:    customer.ExternalID,
		InvoiceID:     invoiceID,
		PaymentType:   p.cfg.PaymentType,
		ReceiptNumber: req.ExternalTransactionID,
		Date:          now.Format("2006-01-02"),
		Amount:        req.Amount.String(),
		Comment:       comment,
		Note:          "Pago procesado automáticamente via API " + p.cfg.SystemLabel,
		Memo:          p.memo(req),
		Field1:        req.FiscalIdentifier,
		Field2:        req.InvoiceReference,
		Field3:        req.ChannelLabel,
		Field4:        req.ExternalTransactionID,
		Field5:        p.cfg.SystemLabel,
	})
}

func (p *PaymentPoster) comment(req entity.PaymentRequest) string {
	return fmt.Sprintf("Pago %s - %s - Pasarela: %s - Transacción: %s",
		p.cfg.SystemLabel, req.Description, req.ChannelLabel, req.ExternalTransactionID)
}

func (p *PaymentPoster) memo(req entity.PaymentRequest) string {
	return fmt.Sprintf("Transacción: %s - Descripción: %s", req.ExternalTransactionID, req.Description)
}

// numericOrEmpty drops invoice ids the CRM would reject as invoice_id.
func numericOrEmpty(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return ""
	}
	return id
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
