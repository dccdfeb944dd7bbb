package legacy

import (
	"bytes"
	"encoding/xml"
	"strings"
	"text/template"
	"time"

	"github.com/vibast-solutions/ms-go-billing-gateway/app/mapper"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/service"
)

// The bank parses these documents positionally: tag names, order and
// indentation are fixed.
const templates = `{{define "query"}}<?xml version="1.0" encoding="UTF-8"?>
<RESPUESTA>
    <ID_CLIENTE>{{text .CustomerID}}</ID_CLIENTE>
    <RUT_CLIENTE>{{text .FiscalID}}</RUT_CLIENTE>
    <CLIENTE>
        <NOMBRE>{{text .Name}}</NOMBRE>
        <ESTADO>{{text .Status}}</ESTADO>
        <FACTURAS>
            <FACTURA>
                <ID_FACTURA>{{text .Invoice.ID}}</ID_FACTURA>
                <MONTO>{{text .Invoice.Amount}}</MONTO>
                <VENCIMIENTO>{{text .Invoice.DueDate}}</VENCIMIENTO>
                <ESTADO>{{text .Invoice.Status}}</ESTADO>
            </FACTURA>
        </FACTURAS>
    </CLIENTE>
</RESPUESTA>{{end}}
{{define "payment"}}<?xml version="1.0" encoding="UTF-8"?>
<RESPUESTA>
    <ID_CLIENTE>{{text .CustomerID}}</ID_CLIENTE>
    <RUT_CLIENTE>{{text .FiscalID}}</RUT_CLIENTE>
    <FECHA_ENVIO>{{.SentAt}}</FECHA_ENVIO>
    <ESTADO>aceptado</ESTADO>
    <MENSAJE>Pago registrado correctamente</MENSAJE>{{if .References}}
    <ID_FACTURA>{{text .InvoiceID}}</ID_FACTURA>
    <ID_TRANSACCION>{{text .TransactionID}}</ID_TRANSACCION>{{end}}
</RESPUESTA>{{end}}
{{define "error"}}<?xml version="1.0" encoding="UTF-8"?>
<RESPUESTA>
    <CLIENTE/>
    <ERRORES>
        <CODIGO_ERROR>{{text .Code}}</CODIGO_ERROR>
        <DESCRIPCION_ERROR>{{text .Message}}</DESCRIPCION_ERROR>
    </ERRORES>
</RESPUESTA>{{end}}`

const sentAtLayout = "2006-01-02T15:04:05-07:00"

// bankZone is the fixed -04:00 offset stamped on FECHA_ENVIO.
var bankZone = time.FixedZone("CLT", -4*60*60)

// Options are the compatibility switches of the XML output. The zero value
// reproduces the retired service byte for byte: text verbatim and the payment
// document ending at MENSAJE. PaymentReferences appends ID_FACTURA and
// ID_TRANSACCION so a payment answer can be read back.
type Options struct {
	Escape            bool
	PaymentReferences bool
}

type Renderer struct {
	opts Options
	tmpl *template.Template
}

type invoiceFields struct {
	ID      string
	Amount  string
	DueDate string
	Status  string
}

type queryFields struct {
	CustomerID string
	FiscalID   string
	Name       string
	Status     string
	Invoice    invoiceFields
}

type paymentFields struct {
	CustomerID    string
	FiscalID      string
	SentAt        string
	References    bool
	InvoiceID     string
	TransactionID string
}

type errorFields struct {
	Code    string
	Message string
}

var noInvoice = invoiceFields{ID: "Sin facturas", Amount: "0.0", DueDate: "N/A", Status: "sin_facturas"}

func NewRenderer(opts Options) *Renderer {
	r := &Renderer{opts: opts}
	r.tmpl = template.Must(template.New("legacy").Funcs(template.FuncMap{"text": r.text}).Parse(templates))
	return r
}

// Query renders a customer query outcome. Failures use the error document.
func (r *Renderer) Query(out *service.QueryOutcome) []byte {
	if !out.Success() {
		return r.Error(out.Code, out.Message)
	}

	invoice := noInvoice
	if op := out.Operative; op != nil {
		invoice = invoiceFields{
			ID:      op.ID,
			Amount:  mapper.LegacyAmount(op.Total),
			DueDate: "N/A",
			Status:  op.Status.LegacyLabel(),
		}
		if op.DueAt != nil {
			invoice.DueDate = op.DueAt.Format("2006-01-02")
		}
	}

	return r.render("query", queryFields{
		CustomerID: out.Customer.ExternalID,
		FiscalID:   out.FiscalID,
		Name:       out.Customer.DisplayName,
		Status:     out.Customer.Status.LegacyLabel(),
		Invoice:    invoice,
	})
}

// Payment renders a payment outcome. Failures use the error document.
func (r *Renderer) Payment(out *service.PaymentOutcome) []byte {
	if !out.Success() {
		return r.Error(out.Code, out.Message)
	}

	accepted := out.Accepted
	fields := paymentFields{
		CustomerID: accepted.CustomerExternalID,
		FiscalID:   out.FiscalID,
		SentAt:     accepted.Timestamp.In(bankZone).Format(sentAtLayout),
		References: r.opts.PaymentReferences,
		InvoiceID:  accepted.InvoiceID,
	}
	if accepted.PostedTransactionID != nil {
		fields.TransactionID = *accepted.PostedTransactionID
	}
	return r.render("payment", fields)
}

func (r *Renderer) Error(code service.ErrorCode, message string) []byte {
	return r.render("error", errorFields{Code: code.String(), Message: message})
}

func (r *Renderer) render(name string, data interface{}) []byte {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		// Templates are static and fields are plain strings.
		panic(err)
	}
	return buf.Bytes()
}

func (r *Renderer) text(s string) string {
	if !r.opts.Escape {
		return s
	}
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
