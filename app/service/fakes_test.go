package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/splynx"
)

type fakeChannel struct {
	findFn     func(ctx context.Context, fiscalID string) (*entity.Customer, error)
	invoicesFn func(ctx context.Context, customerID string) ([]entity.Invoice, error)
	findCalls  int
	listCalls  int
}

func (f *fakeChannel) FindCustomer(ctx context.Context, fiscalID string) (*entity.Customer, error) {
	f.findCalls++
	if f.findFn == nil {
		return nil, nil
	}
	return f.findFn(ctx, fiscalID)
}

func (f *fakeChannel) ListInvoices(ctx context.Context, customerID string) ([]entity.Invoice, error) {
	f.listCalls++
	if f.invoicesFn == nil {
		return []entity.Invoice{}, nil
	}
	return f.invoicesFn(ctx, customerID)
}

type fakeCRM struct {
	mu            sync.Mutex
	loginFn       func(ctx context.Context, login string) (*entity.Customer, error)
	searchFn      func(ctx context.Context, attribute, fragment string) (*entity.Customer, error)
	invoicesFn    func(ctx context.Context, customerID string, limit int) ([]entity.Invoice, error)
	paymentFn     func(ctx context.Context, record splynx.PaymentRecord) (*string, error)
	transactionFn func(ctx context.Context, record splynx.TransactionRecord) (*string, error)

	calls        []string
	payments     []splynx.PaymentRecord
	transactions []splynx.TransactionRecord
}

func (f *fakeCRM) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCRM) FindCustomerByLogin(ctx context.Context, login string) (*entity.Customer, error) {
	f.record("login_exact")
	if f.loginFn == nil {
		return nil, nil
	}
	return f.loginFn(ctx, login)
}

func (f *fakeCRM) SearchCustomers(ctx context.Context, attribute, fragment string) (*entity.Customer, error) {
	f.record(attribute + "_contains")
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(ctx, attribute, fragment)
}

func (f *fakeCRM) ListInvoices(ctx context.Context, customerID string, limit int) ([]entity.Invoice, error) {
	f.record("list_invoices")
	if f.invoicesFn == nil {
		return []entity.Invoice{}, nil
	}
	return f.invoicesFn(ctx, customerID, limit)
}

func (f *fakeCRM) CreatePayment(ctx context.Context, record splynx.PaymentRecord) (*string, error) {
	f.record("create_payment")
	f.mu.Lock()
	f.payments = append(f.payments, record)
	n := len(f.payments)
	f.mu.Unlock()
	if f.paymentFn != nil {
		return f.paymentFn(ctx, record)
	}
	id := fmt.Sprintf("pay-%d", n)
	return &id, nil
}

func (f *fakeCRM) CreateTransaction(ctx context.Context, record splynx.TransactionRecord) (*string, error) {
	f.record("create_transaction")
	f.mu.Lock()
	f.transactions = append(f.transactions, record)
	f.mu.Unlock()
	if f.transactionFn != nil {
		return f.transactionFn(ctx, record)
	}
	return nil, nil
}

func (f *fakeCRM) networkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type queryReq struct {
	fiscalID string
}

func (r queryReq) GetFiscalId() string { return r.fiscalID }

type payReq struct {
	fiscalID, invoice, amount, description, channel, tx string
}

func (r payReq) GetFiscalId() string              { return r.fiscalID }
func (r payReq) GetInvoiceReference() string      { return r.invoice }
func (r payReq) GetAmount() string                { return r.amount }
func (r payReq) GetDescription() string           { return r.description }
func (r payReq) GetChannelLabel() string          { return r.channel }
func (r payReq) GetExternalTransactionId() string { return r.tx }
