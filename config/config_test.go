package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s failed: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		}
	})
}

func TestLoadRequiresSplynxCredentials(t *testing.T) {
	unsetEnv(t, "SPLYNX_API_KEY")
	setEnv(t, "SPLYNX_API_SECRET", "secret")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing SPLYNX_API_KEY")
	}

	setEnv(t, "SPLYNX_API_KEY", "key")
	unsetEnv(t, "SPLYNX_API_SECRET")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing SPLYNX_API_SECRET")
	}
}

func TestLoadRejectsUnknownPostingMode(t *testing.T) {
	setEnv(t, "SPLYNX_API_KEY", "key")
	setEnv(t, "SPLYNX_API_SECRET", "secret")
	setEnv(t, "PAYMENTS_POSTING_MODE", "ledger")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown posting mode")
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, "SPLYNX_API_KEY", "key")
	setEnv(t, "SPLYNX_API_SECRET", "secret")
	unsetEnv(t, "MYSQL_DSN")
	unsetEnv(t, "SPLYNX_TIMEOUT_SECONDS")
	unsetEnv(t, "PAYMENTS_POSTING_MODE")
	unsetEnv(t, "MYSQL_CUSTOMER_LOOKUP_PROCEDURE")
	unsetEnv(t, "LEGACY_XML_ESCAPE")
	unsetEnv(t, "LEGACY_XML_PAYMENT_REFERENCES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.MySQL.Enabled() {
		t.Fatal("expected store channel to be disabled without MYSQL_DSN")
	}
	if cfg.Splynx.Timeout != 30*time.Second {
		t.Fatalf("unexpected splynx timeout: %v", cfg.Splynx.Timeout)
	}
	if cfg.Payments.PostingMode != PostingModePayments || cfg.Payments.PaymentType != "24" {
		t.Fatalf("unexpected payments config: %+v", cfg.Payments)
	}
	if cfg.Legacy.EscapeXML || cfg.Legacy.PaymentReferences {
		t.Fatalf("expected byte-exact legacy output by default: %+v", cfg.Legacy)
	}
	if cfg.MySQL.CustomerLookup != "buscar_cliente_por_rut" {
		t.Fatalf("unexpected customer lookup: %s", cfg.MySQL.CustomerLookup)
	}
}

func TestLoadOverrides(t *testing.T) {
	setEnv(t, "SPLYNX_API_KEY", "key")
	setEnv(t, "SPLYNX_API_SECRET", "secret")
	setEnv(t, "SPLYNX_BASE_URL", "https://crm.example/api/2.0/")
	setEnv(t, "SPLYNX_TIMEOUT_SECONDS", "12")
	setEnv(t, "SPLYNX_RATE_LIMIT_RPS", "2.5")
	setEnv(t, "MYSQL_DSN", "gateway:pw@tcp(localhost:3306)/splynx")
	setEnv(t, "MYSQL_MAX_OPEN_CONNS", "20")
	setEnv(t, "MYSQL_CONN_MAX_LIFETIME_MINUTES", "40")
	setEnv(t, "HTTP_PORT", "8181")
	setEnv(t, "PAYMENTS_POSTING_MODE", "Transactions")
	setEnv(t, "SPLYNX_DEFAULT_TAX_PERCENT", "19")
	setEnv(t, "LEGACY_XML_ESCAPE", "true")
	setEnv(t, "LEGACY_XML_PAYMENT_REFERENCES", "true")
	setEnv(t, "MYSQL_CUSTOMER_LOOKUP_PROCEDURE", "splynx.buscar_cliente_por_rut")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Splynx.BaseURL != "https://crm.example/api/2.0" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.Splynx.BaseURL)
	}
	if cfg.Splynx.Timeout != 12*time.Second || cfg.Splynx.RateLimitRPS != 2.5 {
		t.Fatalf("unexpected splynx config: %+v", cfg.Splynx)
	}
	if !cfg.MySQL.Enabled() || cfg.MySQL.MaxOpenConns != 20 || cfg.MySQL.ConnMaxLifetime != 40*time.Minute {
		t.Fatalf("unexpected mysql config: %+v", cfg.MySQL)
	}
	if cfg.HTTP.Port != "8181" {
		t.Fatalf("unexpected http port: %s", cfg.HTTP.Port)
	}
	if cfg.Payments.PostingMode != PostingModeTransactions || cfg.Payments.TaxPercent != 19 {
		t.Fatalf("unexpected payments config: %+v", cfg.Payments)
	}
	if !cfg.Legacy.EscapeXML || !cfg.Legacy.PaymentReferences {
		t.Fatalf("expected legacy switches enabled: %+v", cfg.Legacy)
	}
	if cfg.MySQL.CustomerLookup != "splynx.buscar_cliente_por_rut" {
		t.Fatalf("expected schema-qualified lookup, got %s", cfg.MySQL.CustomerLookup)
	}
}

func TestLoadRejectsUnsafeLookupProcedure(t *testing.T) {
	setEnv(t, "SPLYNX_API_KEY", "key")
	setEnv(t, "SPLYNX_API_SECRET", "secret")
	setEnv(t, "MYSQL_CUSTOMER_LOOKUP_PROCEDURE", "lookup(); DROP TABLE invoices")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsafe procedure name")
	}

	for _, name := range []string{"a.b.c", "splynx.", ".buscar", "splynx.buscar cliente"} {
		setEnv(t, "MYSQL_CUSTOMER_LOOKUP_PROCEDURE", name)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for procedure name %q", name)
		}
	}
}
