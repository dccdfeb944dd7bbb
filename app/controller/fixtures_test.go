package controller

import (
	"context"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/legacy"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/service"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/splynx"
	"github.com/vibast-solutions/ms-go-billing-gateway/config"
)

type controllerCRM struct {
	customers map[string]*entity.Customer
	invoices  map[string][]entity.Invoice
	payments  []splynx.PaymentRecord
	pingErr   error
	methods   []splynx.PaymentMethod
}

func newControllerCRM() *controllerCRM {
	due := mustDate("2024-05-20")
	return &controllerCRM{
		customers: map[string]*entity.Customer{
			"27240598-0": {ExternalID: "42", DisplayName: "Ana Perez", LoginIdentifier: "27240598-0", Status: entity.CustomerStatusActive},
		},
		invoices: map[string][]entity.Invoice{
			"42": {{ID: "900", CustomerExternalID: "42", Total: decimal.NewFromInt(500), Status: entity.InvoiceStatusUnpaid, DueAt: due}},
		},
		methods: []splynx.PaymentMethod{{ID: "24", Name: "BancoEstado", IsActive: true}},
	}
}

func (c *controllerCRM) FindCustomerByLogin(_ context.Context, login string) (*entity.Customer, error) {
	customer, ok := c.customers[login]
	if !ok {
		return nil, nil
	}
	copied := *customer
	return &copied, nil
}

func (c *controllerCRM) SearchCustomers(context.Context, string, string) (*entity.Customer, error) {
	return nil, nil
}

func (c *controllerCRM) ListInvoices(_ context.Context, customerID string, _ int) ([]entity.Invoice, error) {
	return append([]entity.Invoice(nil), c.invoices[customerID]...), nil
}

func (c *controllerCRM) CreatePayment(_ context.Context, record splynx.PaymentRecord) (*string, error) {
	c.payments = append(c.payments, record)
	id := strconv.Itoa(1000 + len(c.payments))
	return &id, nil
}

func (c *controllerCRM) CreateTransaction(context.Context, splynx.TransactionRecord) (*string, error) {
	return nil, nil
}

func (c *controllerCRM) Ping(context.Context) error {
	return c.pingErr
}

func (c *controllerCRM) ListPaymentMethods(context.Context) ([]splynx.PaymentMethod, error) {
	return c.methods, nil
}

type controllerStore struct {
	pingErr error
}

func (s *controllerStore) FindCustomer(context.Context, string) (*entity.Customer, error) {
	return nil, nil
}

func (s *controllerStore) ListInvoices(context.Context, string) ([]entity.Invoice, error) {
	return nil, nil
}

func (s *controllerStore) Ping(context.Context) error {
	return s.pingErr
}

type testHarness struct {
	crm          *controllerCRM
	store        *controllerStore
	gateway      *service.Gateway
	connectivity *service.ConnectivityService
	renderer     *legacy.Renderer
}

func newHarness() *testHarness {
	crm := newControllerCRM()
	store := &controllerStore{}
	api := service.NewAPIChannel(crm)
	resolver := service.NewCustomerResolver(store, api.Strategies())
	invoices := service.NewInvoiceAggregator(store, api)
	poster := service.NewPaymentPoster(resolver, invoices, crm, config.PaymentsConfig{
		PostingMode: config.PostingModePayments,
		PaymentType: "24",
		SystemLabel: "BancoEstado",
	})
	return &testHarness{
		crm:          crm,
		store:        store,
		gateway:      service.NewGateway(resolver, invoices, poster),
		connectivity: service.NewConnectivityService(store, crm, crm),
		renderer:     legacy.NewRenderer(legacy.Options{PaymentReferences: true}),
	}
}

func newEchoContext(method, target, contentType, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func mustDate(raw string) *time.Time {
	return entity.ParseDate(raw)
}
