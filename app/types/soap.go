package types

import (
	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/service"
)

type SOAPQueryRequest struct {
	RutCliente string `json:"rutCliente"`
}

func NewSOAPQueryRequestFromContext(ctx echo.Context) (*SOAPQueryRequest, error) {
	extractor, err := NewExtractor(ctx.Request())
	if err != nil {
		return nil, err
	}
	return NewSOAPQueryRequest(extractor), nil
}

func NewSOAPQueryRequest(extractor *Extractor) *SOAPQueryRequest {
	return &SOAPQueryRequest{RutCliente: extractor.Value(FieldFiscalID)}
}

func (r *SOAPQueryRequest) Validate() error {
	if r.RutCliente == "" {
		return service.ErrMissingFiscalID
	}
	return nil
}

func (r *SOAPQueryRequest) GetFiscalId() string {
	return r.RutCliente
}

// SOAPPaymentRequest requires every parameter of the registrarPago operation.
type SOAPPaymentRequest struct {
	RutCliente  string `json:"rutCliente" validate:"required"`
	Factura     string `json:"factura" validate:"required"`
	Monto       string `json:"monto" validate:"required"`
	Descripcion string `json:"descripcion" validate:"required"`
	Pasarela    string `json:"pasarela" validate:"required"`
	Transaccion string `json:"transaccion" validate:"required"`
}

func NewSOAPPaymentRequestFromContext(ctx echo.Context) (*SOAPPaymentRequest, error) {
	extractor, err := NewExtractor(ctx.Request())
	if err != nil {
		return nil, err
	}
	return NewSOAPPaymentRequest(extractor), nil
}

func NewSOAPPaymentRequest(extractor *Extractor) *SOAPPaymentRequest {
	return &SOAPPaymentRequest{
		RutCliente:  extractor.Value(FieldFiscalID),
		Factura:     extractor.Value(FieldInvoice),
		Monto:       extractor.Value(FieldAmount),
		Descripcion: extractor.Value(FieldDescription),
		Pasarela:    extractor.Value(FieldChannel),
		Transaccion: extractor.Value(FieldTransactionID),
	}
}

func (r *SOAPPaymentRequest) Validate() error {
	return validateRequired(r)
}

func (r *SOAPPaymentRequest) GetFiscalId() string              { return r.RutCliente }
func (r *SOAPPaymentRequest) GetInvoiceReference() string      { return r.Factura }
func (r *SOAPPaymentRequest) GetAmount() string                { return r.Monto }
func (r *SOAPPaymentRequest) GetDescription() string           { return r.Descripcion }
func (r *SOAPPaymentRequest) GetChannelLabel() string          { return r.Pasarela }
func (r *SOAPPaymentRequest) GetExternalTransactionId() string { return r.Transaccion }
