package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
)

const maxBodyBytes = 1 << 20

var ErrMalformedBody = errors.New("request body could not be parsed")

// Field names one inbound parameter and the alternative names it is accepted
// under. Matching is exact on the local tag or key name.
type Field struct {
	Name    string
	Aliases []string
}

func (f Field) names() []string {
	return append([]string{f.Name}, f.Aliases...)
}

var (
	FieldFiscalID      = Field{Name: "rutCliente", Aliases: []string{"rut_cliente", "RUT_CLIENTE"}}
	FieldInvoice       = Field{Name: "factura", Aliases: []string{"ID_FACTURA"}}
	FieldAmount        = Field{Name: "monto", Aliases: []string{"MONTO"}}
	FieldDescription   = Field{Name: "descripcion", Aliases: []string{"DESCRIPCION"}}
	FieldChannel       = Field{Name: "pasarela", Aliases: []string{"PASARELA"}}
	FieldTransactionID = Field{Name: "transaccion", Aliases: []string{"ID_TRANSACCION"}}
)

// Extractor reads operation parameters from every source a caller may have
// used. Each field is looked up in the XML body, then form values, then the
// JSON body, then the query string; the first non-empty value wins.
type Extractor struct {
	xml   *etree.Element
	form  url.Values
	json  map[string]interface{}
	query url.Values
	raw   []byte
}

// NewExtractor consumes the request body and puts it back so later readers
// see it unchanged.
func NewExtractor(r *http.Request) (*Extractor, error) {
	e := &Extractor{query: r.URL.Query()}

	if r.Body != nil {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		_ = r.Body.Close()
		e.raw = raw
		r.Body = io.NopCloser(bytes.NewReader(raw))
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	trimmed := bytes.TrimSpace(e.raw)

	switch {
	case isXMLMediaType(mediaType) || bytes.HasPrefix(trimmed, []byte("<")):
		if len(trimmed) == 0 {
			break
		}
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(trimmed); err != nil || doc.Root() == nil {
			return nil, fmt.Errorf("%w: invalid xml", ErrMalformedBody)
		}
		e.xml = doc.Root()
	case mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data":
		form, err := parseForm(r, e.raw, mediaType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		e.form = form
	case strings.HasSuffix(mediaType, "json") || bytes.HasPrefix(trimmed, []byte("{")):
		if len(trimmed) == 0 {
			break
		}
		decoder := json.NewDecoder(bytes.NewReader(trimmed))
		decoder.UseNumber()
		if err := decoder.Decode(&e.json); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
	}

	return e, nil
}

// Value returns the first populated value for the field.
func (e *Extractor) Value(f Field) string {
	for _, lookup := range []func(string) string{e.fromXML, e.fromForm, e.fromJSON, e.fromQuery} {
		for _, name := range f.names() {
			if v := strings.TrimSpace(lookup(name)); v != "" {
				return v
			}
		}
	}
	return ""
}

// Raw is the request body as received.
func (e *Extractor) Raw() []byte {
	return e.raw
}

// HasXML reports whether the body was an XML document.
func (e *Extractor) HasXML() bool {
	return e.xml != nil
}

func (e *Extractor) fromXML(name string) string {
	if e.xml == nil {
		return ""
	}
	if el := findLocal(e.xml, name); el != nil {
		return el.Text()
	}
	return ""
}

func (e *Extractor) fromForm(name string) string {
	return e.form.Get(name)
}

func (e *Extractor) fromJSON(name string) string {
	v, ok := e.json[name]
	if !ok || v == nil {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	case bool:
		return fmt.Sprint(typed)
	default:
		return ""
	}
}

func (e *Extractor) fromQuery(name string) string {
	return e.query.Get(name)
}

// findLocal walks the tree depth first and matches on the tag without its
// namespace prefix.
func findLocal(el *etree.Element, name string) *etree.Element {
	if el.Tag == name {
		return el
	}
	for _, child := range el.ChildElements() {
		if found := findLocal(child, name); found != nil {
			return found
		}
	}
	return nil
}

func parseForm(r *http.Request, raw []byte, mediaType string) (url.Values, error) {
	defer func() {
		r.Body = io.NopCloser(bytes.NewReader(raw))
	}()

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

func isXMLMediaType(mediaType string) bool {
	return strings.Contains(mediaType, "xml") || strings.Contains(mediaType, "soap")
}

// SOAP operations served on the legacy path.
const (
	OperationQuery   = "consultarCliente"
	OperationPayment = "registrarPago"
)

// DetectSOAPOperation names the operation a SOAP document invokes, or "" when
// neither is present. Payment wins when a document mentions both.
func DetectSOAPOperation(body []byte) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(bytes.TrimSpace(body)); err == nil && doc.Root() != nil {
		for _, op := range []string{OperationPayment, OperationQuery} {
			if findOperation(doc.Root(), op) {
				return op
			}
		}
		return ""
	}

	text := string(body)
	switch {
	case strings.Contains(text, OperationPayment):
		return OperationPayment
	case strings.Contains(text, OperationQuery):
		return OperationQuery
	}
	return ""
}

func findOperation(el *etree.Element, op string) bool {
	if el.Tag == op || el.Tag == op+"Request" {
		return true
	}
	for _, child := range el.ChildElements() {
		if findOperation(child, op) {
			return true
		}
	}
	return false
}
