package splynx

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/vibast-solutions/ms-go-billing-gateway/app/entity"
)

// flexString accepts JSON strings, numbers and null. Splynx is not consistent
// about quoting ids and amounts.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
		return nil
	}
	*s = flexString(strings.TrimSpace(string(data)))
	return nil
}

func (s flexString) String() string {
	return string(s)
}

type customerRecord struct {
	ID       flexString `json:"id"`
	Login    flexString `json:"login"`
	Name     flexString `json:"name"`
	Status   flexString `json:"status"`
	Email    flexString `json:"email"`
	Phone    flexString `json:"phone"`
	Street   flexString `json:"street_1"`
	City     flexString `json:"city"`
	MRRTotal flexString `json:"mrr_total"`
}

func (r customerRecord) toEntity() *entity.Customer {
	customer := &entity.Customer{
		ExternalID:      r.ID.String(),
		DisplayName:     r.Name.String(),
		LoginIdentifier: r.Login.String(),
		Status:          entity.ParseCustomerStatus(r.Status.String()),
		Email:           optional(r.Email.String()),
		Phone:           optional(r.Phone.String()),
		Address:         optional(joinAddress(r.Street.String(), r.City.String())),
		Balance:         entity.ParseAmount(r.MRRTotal.String()),
		Channel:         entity.ChannelAPI,
	}
	return customer
}

type invoiceRecord struct {
	ID          flexString `json:"id"`
	CustomerID  flexString `json:"customer_id"`
	Total       flexString `json:"total"`
	Status      flexString `json:"status"`
	DateCreated flexString `json:"date_created"`
	DateTill    flexString `json:"date_till"`
	DueDate     flexString `json:"due_date"`
	DateFrom    flexString `json:"date_from"`
	DateTo      flexString `json:"date_to"`
}

func (r invoiceRecord) toEntity() entity.Invoice {
	due := r.DateTill.String()
	if due == "" {
		due = r.DueDate.String()
	}
	return entity.Invoice{
		ID:                 r.ID.String(),
		CustomerExternalID: r.CustomerID.String(),
		Total:              entity.ParseAmount(r.Total.String()),
		Status:             entity.ParseInvoiceStatus(r.Status.String()),
		CreatedAt:          entity.ParseDate(r.DateCreated.String()),
		DueAt:              entity.ParseDate(due),
		BillingPeriod:      entity.BillingPeriod(r.DateFrom.String(), r.DateTo.String()),
	}
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func joinAddress(street, city string) string {
	street, city = strings.TrimSpace(street), strings.TrimSpace(city)
	switch {
	case street == "":
		return city
	case city == "":
		return street
	default:
		return street + ", " + city
	}
}
