package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/factory"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/metrics"
)

// ErrStoreUnavailable covers every store failure, including a store that was
// never configured. Callers fall through to the next channel.
var ErrStoreUnavailable = errors.New("record store unavailable")

// MaxStoreInvoices caps the invoice listing of the store channel.
const MaxStoreInvoices = 20

const listInvoicesQuery = `
	SELECT id, customer_id, total, status, date_created, date_till AS date_to_pay, discount, tax
	FROM invoices
	WHERE customer_id = ?
	ORDER BY date_created DESC
	LIMIT 20
`

// RecordStore reads customers and invoices straight from the CRM database.
type RecordStore struct {
	db              DBTX
	lookupProcedure string
	logger          logrus.FieldLogger
}

// NewRecordStore returns a store bound to db. A nil db yields a store that
// always answers ErrStoreUnavailable.
func NewRecordStore(db DBTX, lookupProcedure string) *RecordStore {
	return &RecordStore{
		db:              db,
		lookupProcedure: lookupProcedure,
		logger:          factory.NewModuleLogger("record-store"),
	}
}

func (s *RecordStore) Enabled() bool {
	return s != nil && s.db != nil
}

// FindCustomer runs the stored lookup procedure. The first row wins; a nil
// customer with a nil error means no match.
func (s *RecordStore) FindCustomer(ctx context.Context, fiscalID string) (*entity.Customer, error) {
	if !s.Enabled() {
		return nil, ErrStoreUnavailable
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("CALL %s(?)", s.lookupProcedure), fiscalID)
	if err != nil {
		s.fail("find_customer", err)
		return nil, ErrStoreUnavailable
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			s.fail("find_customer", err)
			return nil, ErrStoreUnavailable
		}
		metrics.ObserveStoreQuery("find_customer", "miss")
		return nil, nil
	}

	row, err := scanNamedRow(rows)
	if err != nil {
		s.fail("find_customer", err)
		return nil, ErrStoreUnavailable
	}

	externalID := row.value("id_cliente")
	if externalID == "" {
		metrics.ObserveStoreQuery("find_customer", "miss")
		return nil, nil
	}

	metrics.ObserveStoreQuery("find_customer", "ok")
	return &entity.Customer{
		ExternalID:      externalID,
		DisplayName:     row.value("nombre_cliente"),
		LoginIdentifier: row.value("rut_cliente"),
		Status:          entity.ParseCustomerStatus(row.value("status")),
		Address:         row.optional("street_1"),
		Phone:           row.optional("phone"),
		Email:           row.optional("email"),
		Channel:         entity.ChannelStore,
	}, nil
}

// ListInvoices returns up to MaxStoreInvoices invoices, newest first.
func (s *RecordStore) ListInvoices(ctx context.Context, customerExternalID string) ([]entity.Invoice, error) {
	if customerExternalID == "" {
		return []entity.Invoice{}, nil
	}
	if !s.Enabled() {
		return nil, ErrStoreUnavailable
	}

	rows, err := s.db.QueryContext(ctx, listInvoicesQuery, customerExternalID)
	if err != nil {
		s.fail("list_invoices", err)
		return nil, ErrStoreUnavailable
	}
	defer rows.Close()

	invoices := make([]entity.Invoice, 0)
	for rows.Next() {
		row, err := scanNamedRow(rows)
		if err != nil {
			s.fail("list_invoices", err)
			return nil, ErrStoreUnavailable
		}
		if row.value("id") == "" {
			continue
		}
		invoices = append(invoices, entity.Invoice{
			ID:                 row.value("id"),
			CustomerExternalID: row.value("customer_id"),
			Total:              entity.ParseAmount(row.value("total")),
			Status:             entity.ParseInvoiceStatus(row.value("status")),
			CreatedAt:          entity.ParseDate(row.value("date_created")),
			DueAt:              entity.ParseDate(row.value("date_to_pay")),
		})
	}
	if err := rows.Err(); err != nil {
		s.fail("list_invoices", err)
		return nil, ErrStoreUnavailable
	}

	metrics.ObserveStoreQuery("list_invoices", "ok")
	return invoices, nil
}

// Ping checks that the store answers a trivial query.
func (s *RecordStore) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return ErrStoreUnavailable
	}
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		s.fail("ping", err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RecordStore) fail(query string, err error) {
	metrics.ObserveStoreQuery(query, "error")
	l := s.logger.WithField("query", query).WithError(err)
	if isMissingRoutineError(err) {
		l.WithField("procedure", s.lookupProcedure).Error("Customer lookup procedure is missing")
		return
	}
	l.Warn("Record store query failed")
}
