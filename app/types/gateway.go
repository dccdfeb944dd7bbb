package types

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/service"
)

// ResolveCustomerRequest is the REST query body. The snake_case field is the
// name used by the /banco-estado routes.
type ResolveCustomerRequest struct {
	FiscalIdentifier string `json:"fiscalIdentifier" form:"fiscalIdentifier" query:"fiscalIdentifier"`
	RutCliente       string `json:"rut_cliente" form:"rut_cliente" query:"rut_cliente"`
}

func NewResolveCustomerRequestFromContext(ctx echo.Context) (*ResolveCustomerRequest, error) {
	var body ResolveCustomerRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.FiscalIdentifier = firstNonEmpty(body.FiscalIdentifier, body.RutCliente)
	body.RutCliente = ""
	return &body, nil
}

func (r *ResolveCustomerRequest) Validate() error {
	if strings.TrimSpace(r.FiscalIdentifier) == "" {
		return service.ErrMissingFiscalID
	}
	return nil
}

func (r *ResolveCustomerRequest) GetFiscalId() string {
	return r.FiscalIdentifier
}

// PostPaymentRequest is the REST payment body. Every field also accepts the
// snake_case name used by the /banco-estado routes.
type PostPaymentRequest struct {
	FiscalIdentifier      string `json:"fiscalIdentifier" form:"fiscalIdentifier" validate:"required"`
	InvoiceReference      string `json:"invoiceReference" form:"invoiceReference" validate:"required"`
	Amount                Amount `json:"amount" form:"amount" validate:"required"`
	Description           string `json:"description" form:"description" validate:"required"`
	ChannelLabel          string `json:"channelLabel" form:"channelLabel"`
	ExternalTransactionID string `json:"externalTransactionId" form:"externalTransactionId"`
}

// PaymentAliases are the snake_case names of PostPaymentRequest fields.
type PaymentAliases struct {
	RutCliente  string `json:"rut_cliente" form:"rut_cliente"`
	Factura     string `json:"factura" form:"factura"`
	Monto       Amount `json:"monto" form:"monto"`
	Descripcion string `json:"descripcion" form:"descripcion"`
	Pasarela    string `json:"pasarela" form:"pasarela"`
	Transaccion string `json:"transaccion" form:"transaccion"`
}

type postPaymentBody struct {
	PostPaymentRequest
	PaymentAliases
}

func NewPostPaymentRequestFromContext(ctx echo.Context) (*PostPaymentRequest, error) {
	var body postPaymentBody
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	req := body.PostPaymentRequest
	legacy := body.PaymentAliases
	req.FiscalIdentifier = strings.TrimSpace(firstNonEmpty(req.FiscalIdentifier, legacy.RutCliente))
	req.InvoiceReference = strings.TrimSpace(firstNonEmpty(req.InvoiceReference, legacy.Factura))
	req.Amount = Amount(strings.TrimSpace(firstNonEmpty(req.Amount.String(), legacy.Monto.String())))
	req.Description = strings.TrimSpace(firstNonEmpty(req.Description, legacy.Descripcion))
	req.ChannelLabel = strings.TrimSpace(firstNonEmpty(req.ChannelLabel, legacy.Pasarela))
	req.ExternalTransactionID = strings.TrimSpace(firstNonEmpty(req.ExternalTransactionID, legacy.Transaccion))
	return &req, nil
}

func (r *PostPaymentRequest) Validate() error {
	return validateRequired(r)
}

func (r *PostPaymentRequest) GetFiscalId() string              { return r.FiscalIdentifier }
func (r *PostPaymentRequest) GetInvoiceReference() string      { return r.InvoiceReference }
func (r *PostPaymentRequest) GetAmount() string                { return r.Amount.String() }
func (r *PostPaymentRequest) GetDescription() string           { return r.Description }
func (r *PostPaymentRequest) GetChannelLabel() string          { return r.ChannelLabel }
func (r *PostPaymentRequest) GetExternalTransactionId() string { return r.ExternalTransactionID }

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
