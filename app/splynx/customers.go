package splynx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
)

const customersPath = "/admin/customers/customer"

// Customer attributes that can be searched with a partial match.
const (
	AttributeLogin = "login"
	AttributeName  = "name"
)

// FindCustomerByLogin looks up a customer whose login equals the identifier.
// A nil customer with a nil error means no match.
func (c *Client) FindCustomerByLogin(ctx context.Context, login string) (*entity.Customer, error) {
	query := url.Values{}
	query.Set("main_attributes[login]", login)
	query.Set("limit", "1")
	return c.firstCustomer(ctx, query)
}

// SearchCustomers returns the first customer whose attribute contains fragment.
func (c *Client) SearchCustomers(ctx context.Context, attribute, fragment string) (*entity.Customer, error) {
	query := url.Values{}
	query.Set("main_attributes["+attribute+"][0]", "LIKE")
	query.Set("main_attributes["+attribute+"][1]", "%"+fragment+"%")
	query.Set("limit", "1")
	return c.firstCustomer(ctx, query)
}

// Ping issues the cheapest authenticated call available.
func (c *Client) Ping(ctx context.Context) error {
	query := url.Values{}
	query.Set("limit", "1")
	_, err := c.Do(ctx, http.MethodGet, customersPath, query, nil)
	return err
}

func (c *Client) firstCustomer(ctx context.Context, query url.Values) (*entity.Customer, error) {
	body, err := c.Do(ctx, http.MethodGet, customersPath, query, nil)
	if err != nil {
		return nil, err
	}

	var records []customerRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode splynx customers: %w", err)
	}
	for _, record := range records {
		if record.ID.String() != "" {
			return record.toEntity(), nil
		}
	}
	return nil, nil
}
