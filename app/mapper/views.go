package mapper

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
)

const dateLayout = "2006-01-02"

// CustomerView is the customer as rendered in the REST envelope.
type CustomerView struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	RUT       string `json:"rut"`
	Estado    string `json:"estado"`
	Direccion string `json:"direccion,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
	Email     string `json:"email,omitempty"`
	Balance   string `json:"balance"`
	Canal     string `json:"canal"`
}

type InvoiceView struct {
	ID          string `json:"id"`
	Monto       string `json:"monto"`
	Estado      string `json:"estado"`
	Creacion    string `json:"fecha_creacion,omitempty"`
	Vencimiento string `json:"vencimiento,omitempty"`
	Periodo     string `json:"periodo,omitempty"`
}

func CustomerToView(item *entity.Customer) *CustomerView {
	if item == nil {
		return nil
	}
	return &CustomerView{
		ID:        item.ExternalID,
		Nombre:    item.DisplayName,
		RUT:       item.LoginIdentifier,
		Estado:    item.Status.LegacyLabel(),
		Direccion: derefString(item.Address),
		Telefono:  derefString(item.Phone),
		Email:     derefString(item.Email),
		Balance:   item.Balance.StringFixed(2),
		Canal:     string(item.Channel),
	}
}

func InvoiceToView(item *entity.Invoice) *InvoiceView {
	if item == nil {
		return nil
	}
	return &InvoiceView{
		ID:          item.ID,
		Monto:       item.Total.String(),
		Estado:      item.Status.LegacyLabel(),
		Creacion:    formatDate(item.CreatedAt),
		Vencimiento: formatDate(item.DueAt),
		Periodo:     item.BillingPeriod,
	}
}

func InvoicesToView(items []entity.Invoice) []InvoiceView {
	result := make([]InvoiceView, 0, len(items))
	for i := range items {
		result = append(result, *InvoiceToView(&items[i]))
	}
	return result
}

// LegacyAmount renders an amount the way the retired service printed floats:
// integral values keep a trailing ".0".
func LegacyAmount(amount decimal.Decimal) string {
	if amount.IsInteger() {
		return amount.StringFixed(1)
	}
	return amount.String()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func splitPeriod(period string) (string, string) {
	from, to, _ := strings.Cut(period, "/")
	return from, to
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
