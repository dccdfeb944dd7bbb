package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/factory"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/metrics"
)

type queryRequest interface {
	GetFiscalId() string
}

type paymentRequest interface {
	GetFiscalId() string
	GetInvoiceReference() string
	GetAmount() string
	GetDescription() string
	GetChannelLabel() string
	GetExternalTransactionId() string
}

type paymentPoster interface {
	Post(ctx context.Context, req entity.PaymentRequest) (*entity.PaymentAccepted, error)
}

// QueryOutcome is the result of a customer query. Customer is nil unless
// Code is CodeSuccess; Operative is nil when the customer has no invoices.
type QueryOutcome struct {
	Code      ErrorCode
	Message   string
	FiscalID  string
	Customer  *entity.Customer
	Invoices  []entity.Invoice
	Operative *entity.Invoice
	Timestamp time.Time
}

func (o *QueryOutcome) Success() bool {
	return o.Code == CodeSuccess
}

// PaymentOutcome is exactly one of Accepted (Code == CodeSuccess) or a
// rejection carrying Code and Message. The request echo fields are kept for
// formats that repeat them.
type PaymentOutcome struct {
	Code     ErrorCode
	Message  string
	Accepted *entity.PaymentAccepted

	FiscalID              string
	InvoiceReference      string
	Amount                string
	ExternalTransactionID string
	Timestamp             time.Time
}

func (o *PaymentOutcome) Success() bool {
	return o.Accepted != nil
}

// Gateway is the boundary used by every transport. It never returns an error
// or lets a panic escape; failures are carried inside the outcome.
type Gateway struct {
	resolver customerResolver
	invoices invoiceLister
	poster   paymentPoster
	now      func() time.Time
	logger   logrus.FieldLogger
}

func NewGateway(resolver customerResolver, invoices invoiceLister, poster paymentPoster) *Gateway {
	return &Gateway{
		resolver: resolver,
		invoices: invoices,
		poster:   poster,
		now:      time.Now,
		logger:   factory.NewModuleLogger("gateway"),
	}
}

func (g *Gateway) Query(ctx context.Context, req queryRequest) (out *QueryOutcome) {
	out = &QueryOutcome{FiscalID: strings.TrimSpace(req.GetFiscalId())}
	defer func() {
		if r := recover(); r != nil {
			g.logger.WithField("panic", r).Error("Recovered panic in customer query")
			*out = QueryOutcome{FiscalID: out.FiscalID}
			out.Code, out.Message = Classify(&PanicError{Value: r})
		}
		out.Timestamp = g.now()
		metrics.ObserveOperation("query", out.Code.String())
	}()

	customer, err := g.resolver.Resolve(ctx, out.FiscalID)
	if err != nil {
		out.Code, out.Message = Classify(err)
		return out
	}

	invoices, err := g.invoices.ListForCustomer(ctx, customer)
	if err != nil {
		out.Code, out.Message = Classify(err)
		return out
	}

	out.Code = CodeSuccess
	out.Message = "Cliente encontrado exitosamente"
	out.Customer = customer
	out.Invoices = invoices
	out.Operative = SelectOperative(invoices)
	return out
}

func (g *Gateway) Pay(ctx context.Context, req paymentRequest) (out *PaymentOutcome) {
	out = &PaymentOutcome{
		FiscalID:              strings.TrimSpace(req.GetFiscalId()),
		InvoiceReference:      strings.TrimSpace(req.GetInvoiceReference()),
		Amount:                strings.TrimSpace(req.GetAmount()),
		ExternalTransactionID: strings.TrimSpace(req.GetExternalTransactionId()),
	}
	defer func() {
		if r := recover(); r != nil {
			g.logger.WithField("panic", r).Error("Recovered panic in payment")
			out.Accepted = nil
			out.Code, out.Message = Classify(&PanicError{Value: r})
		}
		out.Timestamp = g.now()
		metrics.ObserveOperation("payment", out.Code.String())
	}()

	amount, err := ParseAmount(out.Amount)
	if err != nil {
		out.Code, out.Message = Classify(err)
		return out
	}

	accepted, err := g.poster.Post(ctx, entity.PaymentRequest{
		FiscalIdentifier:      out.FiscalID,
		InvoiceReference:      out.InvoiceReference,
		Amount:                amount,
		Description:           strings.TrimSpace(req.GetDescription()),
		ChannelLabel:          strings.TrimSpace(req.GetChannelLabel()),
		ExternalTransactionID: out.ExternalTransactionID,
	})
	if err != nil {
		out.Code, out.Message = Classify(err)
		return out
	}

	out.Code = CodeSuccess
	out.Message = "Pago registrado exitosamente"
	out.Accepted = accepted
	return out
}

// plainAmount is a signed amount in positional notation with at most 15
// integer and 6 fractional digits. Exponent notation is not accepted.
var plainAmount = regexp.MustCompile(`^[+-]?[0-9]{1,15}(\.[0-9]{1,6})?$`)

// ParseAmount reads a requester-supplied amount. Both "." and "," are
// accepted as decimal separator.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, &MissingParametersError{Fields: []string{"monto"}}
	}
	if strings.Count(raw, ",") == 1 && !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}
	if !plainAmount.MatchString(raw) {
		return decimal.Zero, ErrMalformedAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrMalformedAmount
	}
	return amount, nil
}
