package splynx

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL + "/", APIKey: "key", APISecret: "secret", Timeout: 2 * time.Second})
}

func TestDoSignsRequests(t *testing.T) {
	var header string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	})

	if _, err := client.Do(context.Background(), http.MethodGet, "/admin/customers/customer", nil, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(header, "Splynx-EA (key=key&signature=") || !strings.HasSuffix(header, ")") {
		t.Fatalf("unexpected authorization header: %s", header)
	}
}

func TestDoClassifiesStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusMethodNotAllowed, KindMethodNotAllowed},
		{http.StatusBadGateway, KindServerError},
		{http.StatusTeapot, KindUnknownStatus},
	}

	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(`{"error":"nope"}`))
		})

		_, err := client.Do(context.Background(), http.MethodGet, "/x", nil, nil)
		kind, ok := KindOf(err)
		if !ok || kind != tt.kind {
			t.Fatalf("status %d: expected kind %s, got %v", tt.status, tt.kind, err)
		}
	}
}

func TestDoAcceptsNoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if _, err := client.Do(context.Background(), http.MethodPost, "/x", nil, map[string]string{"a": "b"}); err != nil {
		t.Fatalf("expected 204 to succeed, got %v", err)
	}
}

func TestDoClassifiesTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()
	client := NewClient(Config{BaseURL: server.URL, APIKey: "key", APISecret: "secret", Timeout: 20 * time.Millisecond})

	_, err := client.Do(context.Background(), http.MethodGet, "/x", nil, nil)
	if kind, _ := KindOf(err); kind != KindTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestDoClassifiesConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()
	client := NewClient(Config{BaseURL: url, APIKey: "key", APISecret: "secret", Timeout: time.Second})

	_, err := client.Do(context.Background(), http.MethodGet, "/x", nil, nil)
	if kind, _ := KindOf(err); kind != KindConnection {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestFindCustomerByLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/customers/customer" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("main_attributes[login]"); got != "12345678-9" {
			t.Errorf("unexpected login filter %q", got)
		}
		_, _ = w.Write([]byte(`[{"id":42,"login":"12345678-9","name":"Ana Perez","status":"active","street_1":"Calle 1","city":"Temuco"}]`))
	})

	customer, err := client.FindCustomerByLogin(context.Background(), "12345678-9")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if customer == nil || customer.ExternalID != "42" || customer.Channel != entity.ChannelAPI {
		t.Fatalf("unexpected customer: %+v", customer)
	}
	if customer.Status != entity.CustomerStatusActive || customer.Address == nil || *customer.Address != "Calle 1, Temuco" {
		t.Fatalf("unexpected customer fields: %+v", customer)
	}
}

func TestSearchCustomersUsesLikeFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("main_attributes[name][0]") != "LIKE" || q.Get("main_attributes[name][1]") != "%Perez%" {
			t.Errorf("unexpected filter %v", q)
		}
		_, _ = w.Write([]byte(`[]`))
	})

	customer, err := client.SearchCustomers(context.Background(), AttributeName, "Perez")
	if err != nil || customer != nil {
		t.Fatalf("expected no match, got %+v %v", customer, err)
	}
}

func TestListInvoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("main_attributes[customer_id]") != "42" || q.Get("order[date_created]") != "DESC" || q.Get("limit") != "100" {
			t.Errorf("unexpected query %v", q)
		}
		_, _ = w.Write([]byte(`[
			{"id":"900","customer_id":"42","total":"15000.00","status":"not_paid","date_created":"2024-05-01","date_till":"2024-05-20"},
			{"id":"899","customer_id":"42","total":15000,"status":"paid","date_created":"2024-04-01"}
		]`))
	})

	invoices, err := client.ListInvoices(context.Background(), "42", 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(invoices) != 2 || invoices[0].ID != "900" || invoices[0].Status != entity.InvoiceStatusUnpaid {
		t.Fatalf("unexpected invoices: %+v", invoices)
	}
	if invoices[0].DueAt == nil || invoices[0].DueAt.Format("2006-01-02") != "2024-05-20" {
		t.Fatalf("unexpected due date: %v", invoices[0].DueAt)
	}
	if invoices[1].Total.String() != "15000" {
		t.Fatalf("unexpected total: %s", invoices[1].Total)
	}
}

func TestCreatePaymentReturnsID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/finance/payments" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var record map[string]interface{}
		_ = json.Unmarshal(body, &record)
		if record["receipt_number"] != "TX-1" || record["field_5"] != "BancoEstado" {
			t.Errorf("unexpected body %s", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":555}`))
	})

	id, err := client.CreatePayment(context.Background(), PaymentRecord{
		CustomerID: "42", ReceiptNumber: "TX-1", Amount: "15000", Field5: "BancoEstado",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id == nil || *id != "555" {
		t.Fatalf("unexpected id: %v", id)
	}
}

func TestCreateTransactionWithoutID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/finance/transactions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusAccepted)
	})

	id, err := client.CreateTransaction(context.Background(), TransactionRecord{CustomerID: "42", Type: "debit"})
	if err != nil || id != nil {
		t.Fatalf("expected nil id without error, got %v %v", id, err)
	}
}

func TestListPaymentMethods(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"24","name":"BancoEstado","is_active":"1"},{"id":1,"name":"Cash","is_active":"0"}]`))
	})

	methods, err := client.ListPaymentMethods(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(methods) != 2 || !methods[0].IsActive || methods[1].IsActive || methods[1].ID != "1" {
		t.Fatalf("unexpected methods: %+v", methods)
	}
}
