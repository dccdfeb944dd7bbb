package splynx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
)

const (
	invoicesPath = "/admin/finance/invoices"

	// MaxInvoices is the listing cap used by the API channel.
	MaxInvoices = 100
)

// ListInvoices returns the customer's invoices, newest first.
func (c *Client) ListInvoices(ctx context.Context, customerID string, limit int) ([]entity.Invoice, error) {
	if limit <= 0 || limit > MaxInvoices {
		limit = MaxInvoices
	}

	query := url.Values{}
	query.Set("main_attributes[customer_id]", customerID)
	query.Set("order[date_created]", "DESC")
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.Do(ctx, http.MethodGet, invoicesPath, query, nil)
	if err != nil {
		return nil, err
	}

	var records []invoiceRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode splynx invoices: %w", err)
	}

	invoices := make([]entity.Invoice, 0, len(records))
	for _, record := range records {
		if record.ID.String() == "" {
			continue
		}
		invoices = append(invoices, record.toEntity())
	}
	return invoices, nil
}
