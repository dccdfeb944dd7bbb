package service

import (
	"context"

	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/splynx"
)

// CustomerChannel is one data source able to answer customer and invoice
// lookups. A nil customer with a nil error means no match.
type CustomerChannel interface {
	FindCustomer(ctx context.Context, fiscalID string) (*entity.Customer, error)
	ListInvoices(ctx context.Context, customerExternalID string) ([]entity.Invoice, error)
}

type crmCustomerClient interface {
	FindCustomerByLogin(ctx context.Context, login string) (*entity.Customer, error)
	SearchCustomers(ctx context.Context, attribute, fragment string) (*entity.Customer, error)
	ListInvoices(ctx context.Context, customerID string, limit int) ([]entity.Invoice, error)
}

// APIChannel answers lookups through the CRM API. FindCustomer is the exact
// login match; the partial matches are exposed as fallback strategies.
type APIChannel struct {
	client crmCustomerClient
}

func NewAPIChannel(client crmCustomerClient) *APIChannel {
	return &APIChannel{client: client}
}

func (c *APIChannel) FindCustomer(ctx context.Context, fiscalID string) (*entity.Customer, error) {
	return c.client.FindCustomerByLogin(ctx, fiscalID)
}

func (c *APIChannel) ListInvoices(ctx context.Context, customerExternalID string) ([]entity.Invoice, error) {
	if customerExternalID == "" {
		return []entity.Invoice{}, nil
	}
	return c.client.ListInvoices(ctx, customerExternalID, splynx.MaxInvoices)
}

// Strategies returns the API lookups in resolution order.
func (c *APIChannel) Strategies() []LookupStrategy {
	return []LookupStrategy{
		{Name: "login_exact", Find: c.FindCustomer},
		{Name: "login_contains", Find: func(ctx context.Context, fiscalID string) (*entity.Customer, error) {
			return c.client.SearchCustomers(ctx, splynx.AttributeLogin, fiscalID)
		}},
		{Name: "name_contains", Find: func(ctx context.Context, fiscalID string) (*entity.Customer, error) {
			return c.client.SearchCustomers(ctx, splynx.AttributeName, fiscalID)
		}},
	}
}
