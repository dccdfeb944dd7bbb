package config

import (
	"errors"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// procedureName is a routine identifier with an optional schema qualifier.
var procedureName = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*\.)?[A-Za-z_][A-Za-z0-9_]*$`)

const (
	PostingModePayments     = "payments"
	PostingModeTransactions = "transactions"
)

type Config struct {
	App               AppConfig
	HTTP              ServerConfig
	GRPC              ServerConfig
	MySQL             MySQLConfig
	Log               LogConfig
	InternalEndpoints InternalEndpointsConfig
	Splynx            SplynxConfig
	Payments          PaymentsConfig
	Legacy            LegacyConfig
	Jobs              JobsConfig
}

type AppConfig struct {
	ServiceName string
	Version     string
	PublicURL   string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	CustomerLookup  string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Enabled reports whether the direct store channel is configured.
func (c MySQLConfig) Enabled() bool {
	return strings.TrimSpace(c.DSN) != ""
}

type LogConfig struct {
	Level  string
	Format string
}

type InternalEndpointsConfig struct {
	AuthGRPCAddr string
}

type SplynxConfig struct {
	BaseURL        string
	APIKey         string
	APISecret      string
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

type PaymentsConfig struct {
	PostingMode         string
	PaymentType         string
	TransactionCategory string
	TaxPercent          float64
	SystemLabel         string
}

type LegacyConfig struct {
	EscapeXML         bool
	PaymentReferences bool
}

type JobsConfig struct {
	CheckInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv("SPLYNX_API_KEY")
	if apiKey == "" {
		return nil, errors.New("SPLYNX_API_KEY environment variable is required")
	}
	apiSecret := os.Getenv("SPLYNX_API_SECRET")
	if apiSecret == "" {
		return nil, errors.New("SPLYNX_API_SECRET environment variable is required")
	}

	postingMode := strings.ToLower(getEnv("PAYMENTS_POSTING_MODE", PostingModePayments))
	if postingMode != PostingModePayments && postingMode != PostingModeTransactions {
		return nil, errors.New("PAYMENTS_POSTING_MODE must be payments or transactions")
	}

	customerLookup := getEnv("MYSQL_CUSTOMER_LOOKUP_PROCEDURE", "buscar_cliente_por_rut")
	if !procedureName.MatchString(customerLookup) {
		return nil, errors.New("MYSQL_CUSTOMER_LOOKUP_PROCEDURE must be an identifier, optionally schema-qualified")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "billing-gateway"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			PublicURL:   strings.TrimRight(getEnv("APP_PUBLIC_URL", "http://localhost:8000"), "/"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8000"),
		},
		GRPC: ServerConfig{
			Host: getEnv("GRPC_HOST", "0.0.0.0"),
			Port: getEnv("GRPC_PORT", "9090"),
		},
		MySQL: MySQLConfig{
			DSN:             os.Getenv("MYSQL_DSN"),
			CustomerLookup:  customerLookup,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		InternalEndpoints: InternalEndpointsConfig{
			AuthGRPCAddr: getEnv("AUTH_SERVICE_GRPC_ADDR", ""),
		},
		Splynx: SplynxConfig{
			BaseURL:        strings.TrimRight(getEnv("SPLYNX_BASE_URL", "https://micuenta.gosur.cl/api/2.0"), "/"),
			APIKey:         apiKey,
			APISecret:      apiSecret,
			Timeout:        getSecondsEnv("SPLYNX_TIMEOUT_SECONDS", 30*time.Second),
			RateLimitRPS:   getFloatEnv("SPLYNX_RATE_LIMIT_RPS", 0),
			RateLimitBurst: getIntEnv("SPLYNX_RATE_LIMIT_BURST", 5),
		},
		Payments: PaymentsConfig{
			PostingMode:         postingMode,
			PaymentType:         getEnv("PAYMENTS_SPLYNX_PAYMENT_TYPE", "24"),
			TransactionCategory: getEnv("SPLYNX_DEFAULT_TRANSACTION_CATEGORY", "1"),
			TaxPercent:          getFloatEnv("SPLYNX_DEFAULT_TAX_PERCENT", 0),
			SystemLabel:         getEnv("PAYMENTS_SYSTEM_LABEL", "BancoEstado"),
		},
		Legacy: LegacyConfig{
			EscapeXML:         getBoolEnv("LEGACY_XML_ESCAPE", false),
			PaymentReferences: getBoolEnv("LEGACY_XML_PAYMENT_REFERENCES", false),
		},
		Jobs: JobsConfig{
			CheckInterval: getMinutesEnv("CHECK_INTERVAL_MINUTES", 5*time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
