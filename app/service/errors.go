package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vibast-solutions/ms-go-billing-gateway/app/repository"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/splynx"
)

// ErrorCode is the business code shared by every response format.
type ErrorCode int

const (
	CodeSuccess             ErrorCode = 0
	CodeMissingParameter    ErrorCode = 1
	CodeMalformedAmount     ErrorCode = 2
	CodeCustomerNotFound    ErrorCode = 3
	CodeInvalidAmount       ErrorCode = 4
	CodeNoInvoices          ErrorCode = 5
	CodeUnauthorized        ErrorCode = 401
	CodeForbidden           ErrorCode = 403
	CodeUpstreamNotFound    ErrorCode = 404
	CodeUpstreamTimeout     ErrorCode = 408
	CodeInternal            ErrorCode = 500
	CodeUpstreamUnavailable ErrorCode = 503
)

func (c ErrorCode) String() string {
	return strconv.Itoa(int(c))
}

var (
	ErrMissingFiscalID  = errors.New("fiscal identifier is required")
	ErrMalformedAmount  = errors.New("amount is not a number")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNoInvoices       = errors.New("customer has no invoices")
	ErrConnectivity     = errors.New("connectivity check failed")
)

// MissingParametersError lists the required fields absent from a request.
type MissingParametersError struct {
	Fields []string
}

func (e *MissingParametersError) Error() string {
	return "missing required parameters: " + strings.Join(e.Fields, ", ")
}

// PanicError wraps a value recovered at the gateway boundary.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v", e.Value)
}

// Classify maps any error produced below the gateway onto the shared code
// table and the message returned to the bank.
func Classify(err error) (ErrorCode, string) {
	if err == nil {
		return CodeSuccess, ""
	}

	var missing *MissingParametersError
	if errors.As(err, &missing) {
		return CodeMissingParameter, "Parámetros requeridos faltantes: " + strings.Join(missing.Fields, ", ")
	}

	switch {
	case errors.Is(err, ErrMissingFiscalID):
		return CodeMissingParameter, "RUT del cliente es requerido"
	case errors.Is(err, ErrMalformedAmount):
		return CodeMalformedAmount, "Monto debe ser un número válido"
	case errors.Is(err, ErrCustomerNotFound):
		return CodeCustomerNotFound, "Cliente no encontrado"
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount, "Monto inválido"
	case errors.Is(err, ErrNoInvoices):
		return CodeNoInvoices, "Cliente no tiene facturas"
	case errors.Is(err, repository.ErrStoreUnavailable):
		return CodeUpstreamUnavailable, "Error de conexión con la base de datos"
	}

	if kind, ok := splynx.KindOf(err); ok {
		switch kind {
		case splynx.KindUnauthorized:
			return CodeUnauthorized, "Credenciales inválidas"
		case splynx.KindForbidden:
			return CodeForbidden, "Sin permisos para este recurso"
		case splynx.KindNotFound:
			return CodeUpstreamNotFound, "Recurso no encontrado"
		case splynx.KindTimeout:
			return CodeUpstreamTimeout, "Timeout de conexión con Splynx"
		case splynx.KindConnection:
			return CodeUpstreamUnavailable, "Error de conexión con Splynx"
		case splynx.KindServerError:
			return CodeInternal, "Error interno del servidor Splynx"
		case splynx.KindMethodNotAllowed:
			return CodeInternal, "Método no permitido para este endpoint"
		default:
			return CodeInternal, "Error HTTP desde Splynx: " + err.Error()
		}
	}

	return CodeInternal, "Error interno del servidor: " + err.Error()
}
