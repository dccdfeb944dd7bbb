package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-billing-gateway/app/service"
)

// Envelope is the REST response body shared by every gateway endpoint.
type Envelope struct {
	Success   bool           `json:"success"`
	ErrorCode string         `json:"errorCode"`
	Message   string         `json:"message"`
	Data      interface{}    `json:"data,omitempty"`
	Error     *EnvelopeError `json:"error,omitempty"`
	RawXML    string         `json:"raw_xml,omitempty"`
}

type EnvelopeError struct {
	CodigoError      string `json:"codigo_error"`
	DescripcionError string `json:"descripcion_error"`
}

type QueryData struct {
	Cliente          *CustomerView `json:"cliente"`
	Facturas         []InvoiceView `json:"facturas"`
	FacturaOperativa *InvoiceView  `json:"factura_operativa"`
}

type PaymentData struct {
	CustomerID         string  `json:"customer_id"`
	RUT                string  `json:"rut"`
	FacturaID          string  `json:"factura_id"`
	Monto              string  `json:"monto"`
	TransaccionID      *string `json:"transaccion_id"`
	TransaccionExterna string  `json:"transaccion_externa,omitempty"`
	Timestamp          string  `json:"timestamp"`
}

func QueryEnvelope(out *service.QueryOutcome) *Envelope {
	if !out.Success() {
		return ErrorEnvelope(out.Code, out.Message)
	}
	return &Envelope{
		Success:   true,
		ErrorCode: out.Code.String(),
		Message:   out.Message,
		Data: &QueryData{
			Cliente:          CustomerToView(out.Customer),
			Facturas:         InvoicesToView(out.Invoices),
			FacturaOperativa: InvoiceToView(out.Operative),
		},
	}
}

func PaymentEnvelope(out *service.PaymentOutcome) *Envelope {
	if !out.Success() {
		return ErrorEnvelope(out.Code, out.Message)
	}
	accepted := out.Accepted
	return &Envelope{
		Success:   true,
		ErrorCode: out.Code.String(),
		Message:   out.Message,
		Data: &PaymentData{
			CustomerID:         accepted.CustomerExternalID,
			RUT:                accepted.FiscalIdentifier,
			FacturaID:          accepted.InvoiceID,
			Monto:              accepted.Amount.String(),
			TransaccionID:      accepted.PostedTransactionID,
			TransaccionExterna: out.ExternalTransactionID,
			Timestamp:          accepted.Timestamp.UTC().Format(time.RFC3339),
		},
	}
}

func ErrorEnvelope(code service.ErrorCode, message string) *Envelope {
	return &Envelope{
		Success:   false,
		ErrorCode: code.String(),
		Message:   message,
		Error: &EnvelopeError{
			CodigoError:      code.String(),
			DescripcionError: message,
		},
	}
}
