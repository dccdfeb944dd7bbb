package splynx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	paymentsPath       = "/admin/finance/payments"
	transactionsPath   = "/admin/finance/transactions"
	paymentMethodsPath = "/admin/finance/payment-methods"
)

// PaymentRecord is the body of a finance payment.
type PaymentRecord struct {
	CustomerID    string `json:"customer_id"`
	InvoiceID     string `json:"invoice_id,omitempty"`
	PaymentType   string `json:"payment_type"`
	ReceiptNumber string `json:"receipt_number"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	Comment       string `json:"comment"`
	Note          string `json:"note,omitempty"`
	Memo          string `json:"memo,omitempty"`
	Field1        string `json:"field_1,omitempty"`
	Field2        string `json:"field_2,omitempty"`
	Field3        string `json:"field_3,omitempty"`
	Field4        string `json:"field_4,omitempty"`
	Field5        string `json:"field_5,omitempty"`
}

// TransactionRecord is the body of a finance transaction.
type TransactionRecord struct {
	CustomerID  string `json:"customer_id"`
	InvoiceID   string `json:"invoice_id,omitempty"`
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	TaxPercent  string `json:"tax_percent"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Comment     string `json:"comment,omitempty"`
	Source      string `json:"source"`
}

type PaymentMethod struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type createdRecord struct {
	ID flexString `json:"id"`
}

// CreatePayment posts a payment and returns the id Splynx assigned, if any.
func (c *Client) CreatePayment(ctx context.Context, record PaymentRecord) (*string, error) {
	body, err := c.Do(ctx, http.MethodPost, paymentsPath, nil, record)
	if err != nil {
		return nil, err
	}
	return createdID(body), nil
}

func (c *Client) CreateTransaction(ctx context.Context, record TransactionRecord) (*string, error) {
	body, err := c.Do(ctx, http.MethodPost, transactionsPath, nil, record)
	if err != nil {
		return nil, err
	}
	return createdID(body), nil
}

func (c *Client) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	body, err := c.Do(ctx, http.MethodGet, paymentMethodsPath, nil, nil)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		ID       flexString `json:"id"`
		Name     flexString `json:"name"`
		IsActive flexString `json:"is_active"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode splynx payment methods: %w", err)
	}

	methods := make([]PaymentMethod, 0, len(raw))
	for _, m := range raw {
		active := strings.ToLower(m.IsActive.String())
		methods = append(methods, PaymentMethod{
			ID:       m.ID.String(),
			Name:     m.Name.String(),
			IsActive: active == "1" || active == "true",
		})
	}
	return methods, nil
}

// createdID extracts the record id from a create response. Empty or
// non-object bodies yield nil.
func createdID(body []byte) *string {
	var created createdRecord
	if err := json.Unmarshal(body, &created); err != nil {
		return nil
	}
	return optional(created.ID.String())
}
