package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Channel identifies the data source that produced a customer.
type Channel string

const (
	ChannelStore Channel = "store"
	ChannelAPI   Channel = "api"
)

type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusNew      CustomerStatus = "new"
	CustomerStatusBlocked  CustomerStatus = "blocked"
	CustomerStatusDisabled CustomerStatus = "disabled"
	CustomerStatusUnknown  CustomerStatus = "unknown"
)

func ParseCustomerStatus(raw string) CustomerStatus {
	switch CustomerStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case CustomerStatusActive:
		return CustomerStatusActive
	case CustomerStatusNew:
		return CustomerStatusNew
	case CustomerStatusBlocked:
		return CustomerStatusBlocked
	case CustomerStatusDisabled:
		return CustomerStatusDisabled
	default:
		return CustomerStatusUnknown
	}
}

// LegacyLabel is the status wording the bank switch expects.
func (s CustomerStatus) LegacyLabel() string {
	switch s {
	case CustomerStatusActive:
		return "activo"
	case CustomerStatusNew:
		return "nuevo"
	case CustomerStatusBlocked:
		return "bloqueado"
	case CustomerStatusDisabled:
		return "inactivo"
	default:
		return "desconocido"
	}
}

type Customer struct {
	ExternalID      string
	DisplayName     string
	LoginIdentifier string
	Status          CustomerStatus

	Address *string
	Phone   *string
	Email   *string

	Balance decimal.Decimal
	Channel Channel
}
