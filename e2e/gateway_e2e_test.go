//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultGatewayHTTPBase = "http://localhost:48081"
	defaultGatewayGRPCAddr = "localhost:49091"

	grpcService = "/gateway.v1.GatewayService/"
)

type httpClient struct {
	baseURL string
	client  *http.Client
}

func newHTTPClient(baseURL string) *httpClient {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) do(t *testing.T, method, path, contentType string, body []byte, apiKey string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response failed: %v", err)
	}
	return resp, bodyBytes
}

func (c *httpClient) doJSON(t *testing.T, method, path string, body any, apiKey string) (*http.Response, map[string]any) {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}
	resp, raw := c.do(t, method, path, "application/json", data, apiKey)

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal failed: %v body=%s", err, string(raw))
	}
	return resp, payload
}

func waitForHTTP(baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("http service not ready at %s", baseURL)
}

func waitForGRPC(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("grpc service not ready at %s", addr)
}

func grpcContext(apiKey string) context.Context {
	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-request-id", fmt.Sprintf("e2e-grpc-%d", time.Now().UnixNano()))
	if apiKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "x-api-key", apiKey)
	}
	return ctx
}

func invokeGRPC(conn *grpc.ClientConn, ctx context.Context, method string, in map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	err = conn.Invoke(ctx, grpcService+method, req, out)
	return out, err
}

func TestGatewayE2E(t *testing.T) {
	httpBase := os.Getenv("GATEWAY_HTTP_URL")
	if httpBase == "" {
		httpBase = defaultGatewayHTTPBase
	}
	grpcAddr := os.Getenv("GATEWAY_GRPC_ADDR")
	if grpcAddr == "" {
		grpcAddr = defaultGatewayGRPCAddr
	}

	if err := waitForHTTP(httpBase, 30*time.Second); err != nil {
		t.Fatalf("http not ready: %v", err)
	}
	if err := waitForGRPC(grpcAddr, 30*time.Second); err != nil {
		t.Fatalf("grpc not ready: %v", err)
	}

	client := newHTTPClient(httpBase)

	conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("grpc dial failed: %v", err)
	}
	defer conn.Close()

	t.Run("HTTPHealthIsOpen", func(t *testing.T) {
		resp, payload := client.doJSON(t, http.MethodGet, "/banco-estado/health", nil, "")
		if resp.StatusCode != http.StatusOK || payload["status"] != "healthy" {
			t.Fatalf("unexpected health %d %v", resp.StatusCode, payload)
		}
		if resp.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected generated x-request-id")
		}
	})

	t.Run("HTTPUnauthorizedMissingAPIKey", func(t *testing.T) {
		resp, _ := client.do(t, http.MethodPost, "/resolve-customer", "application/json", []byte(`{}`), "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 for missing x-api-key, got %d", resp.StatusCode)
		}
	})

	t.Run("HTTPForbiddenInsufficientAccess", func(t *testing.T) {
		resp, _ := client.do(t, http.MethodPost, "/resolve-customer", "application/json", []byte(`{}`), gatewayNoAccessAPIKey())
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403 for insufficient access, got %d", resp.StatusCode)
		}
	})

	t.Run("HTTPResolveMissingFiscalID", func(t *testing.T) {
		resp, payload := client.doJSON(t, http.MethodPost, "/resolve-customer", map[string]any{}, gatewayCallerAPIKey())
		if resp.StatusCode != http.StatusOK || payload["errorCode"] != "1" {
			t.Fatalf("expected code 1, got %d %v", resp.StatusCode, payload)
		}
	})

	t.Run("HTTPPaymentMalformedAmount", func(t *testing.T) {
		body := map[string]any{"fiscalIdentifier": "27240598-0", "invoiceReference": "900", "amount": "abc", "description": "e2e"}
		_, payload := client.doJSON(t, http.MethodPost, "/post-payment", body, gatewayCallerAPIKey())
		if payload["errorCode"] != "2" {
			t.Fatalf("expected code 2, got %v", payload)
		}
	})

	t.Run("SOAPMissingParameters", func(t *testing.T) {
		resp, body := client.do(t, http.MethodPost, "/registrarPago", "application/json", []byte(`{"rutCliente":"27240598-0"}`), "")
		if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
			t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
		}
		if !strings.Contains(string(body), `"codigo_error":"1"`) {
			t.Fatalf("expected code 1, got %s", string(body))
		}
	})

	t.Run("LegacyWSDL", func(t *testing.T) {
		resp, body := client.do(t, http.MethodGet, "/bancoestado/web/index.php?wsdl", "", nil, "")
		if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `name="BancoEstadoService"`) {
			t.Fatalf("unexpected wsdl %d %s", resp.StatusCode, string(body))
		}
	})

	t.Run("LegacyRejectsNonXML", func(t *testing.T) {
		_, body := client.do(t, http.MethodPost, "/bancoestado/web/index.php", "application/json", []byte(`{}`), "")
		if !strings.Contains(string(body), "Content-Type debe ser") {
			t.Fatalf("unexpected body %s", string(body))
		}
	})

	t.Run("LegacyUnknownOperation", func(t *testing.T) {
		_, body := client.do(t, http.MethodPost, "/bancoestado/web/index.php", "text/xml", []byte(`<Envelope><Body><anular/></Body></Envelope>`), "")
		if !strings.Contains(string(body), "<CODIGO_ERROR>1</CODIGO_ERROR>") {
			t.Fatalf("unexpected body %s", string(body))
		}
	})

	t.Run("GRPCUnauthorizedMissingAPIKey", func(t *testing.T) {
		_, err := invokeGRPC(conn, grpcContext(""), "Health", map[string]any{})
		if status.Code(err) != codes.Unauthenticated {
			t.Fatalf("expected Unauthenticated, got %v", err)
		}
	})

	t.Run("GRPCForbiddenInsufficientAccess", func(t *testing.T) {
		_, err := invokeGRPC(conn, grpcContext(gatewayNoAccessAPIKey()), "Health", map[string]any{})
		if status.Code(err) != codes.PermissionDenied {
			t.Fatalf("expected PermissionDenied, got %v", err)
		}
	})

	t.Run("GRPCHealth", func(t *testing.T) {
		out, err := invokeGRPC(conn, grpcContext(gatewayCallerAPIKey()), "Health", map[string]any{})
		if err != nil {
			t.Fatalf("grpc health failed: %v", err)
		}
		if out.GetFields()["status"].GetStringValue() != "healthy" {
			t.Fatalf("unexpected health %v", out)
		}
	})

	t.Run("GRPCResolveMissingFiscalID", func(t *testing.T) {
		out, err := invokeGRPC(conn, grpcContext(gatewayCallerAPIKey()), "ResolveCustomer", map[string]any{})
		if err != nil {
			t.Fatalf("grpc resolve failed: %v", err)
		}
		if out.GetFields()["errorCode"].GetStringValue() != "1" {
			t.Fatalf("expected code 1, got %v", out)
		}
	})
}
