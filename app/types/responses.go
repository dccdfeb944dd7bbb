package types

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ServiceStatusResponse answers a plain GET on the legacy path.
type ServiceStatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type InfoResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Store     string            `json:"database"`
	Endpoints map[string]string `json:"endpoints"`
}

type ChannelStatusResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	LatencyMs int64  `json:"latency_ms"`
}

type ConnectivityResponse struct {
	Success   bool                   `json:"success"`
	Store     *ChannelStatusResponse `json:"database"`
	API       *ChannelStatusResponse `json:"api"`
	Message   string                 `json:"message"`
	CheckedAt string                 `json:"checked_at"`
}

type PaymentMethodResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type PaymentMethodsResponse struct {
	Success        bool                    `json:"success"`
	PaymentMethods []PaymentMethodResponse `json:"payment_methods,omitempty"`
	Error          string                  `json:"error,omitempty"`
}
