package service

import (
	"context"
	"errors"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/factory"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/repository"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/splynx"
)

// InvoiceAggregator lists invoices from the channel that produced the customer.
type InvoiceAggregator struct {
	store  CustomerChannel
	api    CustomerChannel
	logger logrus.FieldLogger
}

func NewInvoiceAggregator(store, api CustomerChannel) *InvoiceAggregator {
	return &InvoiceAggregator{
		store:  store,
		api:    api,
		logger: factory.NewModuleLogger("invoice-aggregator"),
	}
}

// ListForCustomer returns the customer's invoices newest first, always from the
// channel that produced the customer. A store that cannot list invoices yields
// an empty list.
func (a *InvoiceAggregator) ListForCustomer(ctx context.Context, customer *entity.Customer) ([]entity.Invoice, error) {
	if customer == nil || customer.ExternalID == "" {
		return []entity.Invoice{}, nil
	}

	var (
		invoices []entity.Invoice
		err      error
		limit    = splynx.MaxInvoices
	)
	if customer.Channel == entity.ChannelStore && a.store != nil {
		limit = repository.MaxStoreInvoices
		invoices, err = a.store.ListInvoices(ctx, customer.ExternalID)
		if errors.Is(err, repository.ErrStoreUnavailable) {
			a.logger.WithField("customer_id", customer.ExternalID).Warn("Store invoice listing unavailable, returning no invoices")
			return []entity.Invoice{}, nil
		}
	} else {
		invoices, err = a.api.ListInvoices(ctx, customer.ExternalID)
	}
	if err != nil {
		return nil, err
	}

	sortNewestFirst(invoices)
	if len(invoices) > limit {
		invoices = invoices[:limit]
	}
	return invoices, nil
}

// SelectOperative returns the first open invoice, else the most recent one.
func SelectOperative(invoices []entity.Invoice) *entity.Invoice {
	if len(invoices) == 0 {
		return nil
	}
	for i := range invoices {
		if invoices[i].Status.Open() {
			return &invoices[i]
		}
	}
	return &invoices[0]
}

// SelectForPayment prefers the invoice matching reference over the ranked choice.
func SelectForPayment(invoices []entity.Invoice, reference string) *entity.Invoice {
	if reference != "" {
		for i := range invoices {
			if invoices[i].ID == reference {
				return &invoices[i]
			}
		}
	}
	return SelectOperative(invoices)
}

// sortNewestFirst orders by creation date. Undated invoices keep their
// relative order after the dated ones.
func sortNewestFirst(invoices []entity.Invoice) {
	sort.SliceStable(invoices, func(i, j int) bool {
		a, b := invoices[i].CreatedAt, invoices[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
