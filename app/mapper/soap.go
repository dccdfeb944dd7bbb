package mapper

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/service"
)

const soapTimestampLayout = "2006-01-02T15:04:05.000000"

// The SOAP-compatible endpoints answer plain-text JSON documents whose key
// order matches the service they replace.

type SOAPCustomer struct {
	ID              string `json:"id"`
	Nombre          string `json:"nombre"`
	RUT             string `json:"rut"`
	Email           string `json:"email"`
	Estado          string `json:"estado"`
	Direccion       string `json:"direccion"`
	Ciudad          string `json:"ciudad"`
	Telefono        string `json:"telefono"`
	FechaRegistro   string `json:"fecha_registro"`
	TipoFacturacion string `json:"tipo_facturacion"`
	Balance         string `json:"balance"`
}

type SOAPInvoice struct {
	ID               string `json:"id"`
	Total            string `json:"total"`
	Estado           string `json:"estado"`
	FechaCreacion    string `json:"fecha_creacion"`
	FechaVencimiento string `json:"fecha_vencimiento"`
	PeriodoDesde     string `json:"periodo_desde"`
	PeriodoHasta     string `json:"periodo_hasta"`
}

type SOAPQueryResponse struct {
	Success                bool          `json:"success"`
	CodigoError            string        `json:"codigo_error"`
	Mensaje                string        `json:"mensaje"`
	RUT                    string        `json:"rut"`
	Cliente                *SOAPCustomer `json:"cliente"`
	Facturas               []SOAPInvoice `json:"facturas"`
	TotalFacturas          int           `json:"total_facturas"`
	UltimaFacturaPendiente *SOAPInvoice  `json:"ultima_factura_pendiente"`
	Timestamp              string        `json:"timestamp"`
}

type SOAPQueryFailure struct {
	Success     bool          `json:"success"`
	CodigoError string        `json:"codigo_error"`
	Mensaje     string        `json:"mensaje"`
	RUT         string        `json:"rut"`
	Cliente     *SOAPCustomer `json:"cliente"`
	Facturas    []SOAPInvoice `json:"facturas"`
}

type SOAPPaymentResponse struct {
	Success       bool    `json:"success"`
	CodigoError   string  `json:"codigo_error"`
	Mensaje       string  `json:"mensaje"`
	RUT           string  `json:"rut"`
	FacturaID     string  `json:"factura_id"`
	Monto         float64 `json:"monto"`
	TransaccionID string  `json:"transaccion_id"`
	PaymentID     *string `json:"payment_id"`
	CustomerID    string  `json:"customer_id"`
	Timestamp     string  `json:"timestamp"`
}

type SOAPPaymentFailure struct {
	Success       bool    `json:"success"`
	CodigoError   string  `json:"codigo_error"`
	Mensaje       string  `json:"mensaje"`
	RUT           string  `json:"rut,omitempty"`
	TransaccionID *string `json:"transaccion_id,omitempty"`
}

// SOAPError is the short failure document used before any field is known.
type SOAPError struct {
	Success     bool   `json:"success"`
	CodigoError string `json:"codigo_error"`
	Mensaje     string `json:"mensaje"`
}

func SOAPQuery(out *service.QueryOutcome) interface{} {
	if !out.Success() {
		return &SOAPQueryFailure{
			CodigoError: out.Code.String(),
			Mensaje:     out.Message,
			RUT:         out.FiscalID,
			Facturas:    []SOAPInvoice{},
		}
	}

	customer := out.Customer
	facturas := make([]SOAPInvoice, 0, len(out.Invoices))
	var pending *SOAPInvoice
	for i := range out.Invoices {
		factura := soapInvoice(&out.Invoices[i])
		facturas = append(facturas, factura)
		if pending == nil && out.Invoices[i].Status.Open() {
			p := factura
			pending = &p
		}
	}

	rut := customer.LoginIdentifier
	if rut == "" {
		rut = out.FiscalID
	}
	return &SOAPQueryResponse{
		Success:     true,
		CodigoError: out.Code.String(),
		Mensaje:     out.Message,
		RUT:         out.FiscalID,
		Cliente: &SOAPCustomer{
			ID:        customer.ExternalID,
			Nombre:    customer.DisplayName,
			RUT:       rut,
			Email:     derefString(customer.Email),
			Estado:    string(customer.Status),
			Direccion: derefString(customer.Address),
			Telefono:  derefString(customer.Phone),
			Balance:   customer.Balance.StringFixed(4),
		},
		Facturas:               facturas,
		TotalFacturas:          len(facturas),
		UltimaFacturaPendiente: pending,
		Timestamp:              formatTimestamp(out.Timestamp),
	}
}

func SOAPPayment(out *service.PaymentOutcome) interface{} {
	if !out.Success() {
		failure := &SOAPPaymentFailure{
			CodigoError: out.Code.String(),
			Mensaje:     out.Message,
			RUT:         out.FiscalID,
		}
		if out.ExternalTransactionID != "" {
			tx := out.ExternalTransactionID
			failure.TransaccionID = &tx
		}
		return failure
	}

	accepted := out.Accepted
	return &SOAPPaymentResponse{
		Success:       true,
		CodigoError:   out.Code.String(),
		Mensaje:       out.Message,
		RUT:           out.FiscalID,
		FacturaID:     out.InvoiceReference,
		Monto:         accepted.Amount.InexactFloat64(),
		TransaccionID: out.ExternalTransactionID,
		PaymentID:     accepted.PostedTransactionID,
		CustomerID:    accepted.CustomerExternalID,
		Timestamp:     formatTimestamp(accepted.Timestamp),
	}
}

func SOAPFailure(code service.ErrorCode, message string) *SOAPError {
	return &SOAPError{CodigoError: code.String(), Mensaje: message}
}

// MarshalSOAP encodes without HTML escaping so accented text and "&" reach
// the bank as written.
func MarshalSOAP(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func soapInvoice(item *entity.Invoice) SOAPInvoice {
	from, to := splitPeriod(item.BillingPeriod)
	return SOAPInvoice{
		ID:               item.ID,
		Total:            item.Total.String(),
		Estado:           string(item.Status),
		FechaCreacion:    formatDate(item.CreatedAt),
		FechaVencimiento: formatDate(item.DueAt),
		PeriodoDesde:     from,
		PeriodoHasta:     to,
	}
}

func formatTimestamp(t time.Time) string {
	return t.Format(soapTimestampLayout)
}
