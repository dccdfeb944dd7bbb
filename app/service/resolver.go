package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/factory"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/metrics"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/repository"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/splynx"
)

// LookupStrategy is one named way of finding a customer through the API.
type LookupStrategy struct {
	Name string
	Find func(ctx context.Context, fiscalID string) (*entity.Customer, error)
}

// CustomerResolver tries the store first, then each API strategy in order.
type CustomerResolver struct {
	store      CustomerChannel
	strategies []LookupStrategy
	logger     logrus.FieldLogger
}

func NewCustomerResolver(store CustomerChannel, strategies []LookupStrategy) *CustomerResolver {
	return &CustomerResolver{
		store:      store,
		strategies: strategies,
		logger:     factory.NewModuleLogger("customer-resolver"),
	}
}

// Resolve returns the customer for a fiscal identifier. An unauthorized CRM
// answer aborts the chain. Other upstream failures let the next strategy run;
// when nothing matches, the first of them is returned instead of
// ErrCustomerNotFound.
func (r *CustomerResolver) Resolve(ctx context.Context, rawFiscalID string) (*entity.Customer, error) {
	fiscalID := entity.NormalizeFiscalID(rawFiscalID)
	if fiscalID == "" {
		return nil, ErrMissingFiscalID
	}

	l := r.logger.WithField("fiscal_id", fiscalID)
	if !entity.ValidRUT(fiscalID) {
		l.Warn("Fiscal identifier has an invalid check digit")
	}

	if r.store != nil {
		customer, err := r.store.FindCustomer(ctx, fiscalID)
		switch {
		case err != nil && !errors.Is(err, repository.ErrStoreUnavailable):
			l.WithError(err).Warn("Store lookup failed")
		case err != nil:
			l.Debug("Store channel unavailable")
		case customer != nil && customer.ExternalID != "":
			customer.Channel = entity.ChannelStore
			metrics.ObserveResolution(string(entity.ChannelStore), "stored_lookup")
			l.WithField("customer_id", customer.ExternalID).Info("Customer resolved from store")
			return customer, nil
		}
	}

	var firstErr error
	for _, strategy := range r.strategies {
		customer, err := strategy.Find(ctx, fiscalID)
		if err != nil {
			if splynx.IsUnauthorized(err) {
				l.WithField("strategy", strategy.Name).Error("CRM rejected credentials, aborting resolution")
				return nil, err
			}
			l.WithField("strategy", strategy.Name).WithError(err).Warn("Customer lookup strategy failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if customer == nil || customer.ExternalID == "" {
			continue
		}

		customer.Channel = entity.ChannelAPI
		metrics.ObserveResolution(string(entity.ChannelAPI), strategy.Name)
		l.WithField("customer_id", customer.ExternalID).WithField("strategy", strategy.Name).Info("Customer resolved from API")
		return customer, nil
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return nil, ErrCustomerNotFound
}
