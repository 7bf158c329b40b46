package models

import validation "github.com/go-ozzo/ozzo-validation"

// QuotationRequest is a prospective client's request for an inspection quote.
type QuotationRequest struct {
	ShipType       string `json:"shipType"`
	ServiceType    string `json:"serviceType"`
	PortCountry    string `json:"portCountry"`
	InspectionDate string `json:"inspectionDate"`
}

func (q *QuotationRequest) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.ShipType, validation.Required, validation.Length(1, maxFieldLength)),
		validation.Field(&q.ServiceType, validation.Required, validation.Length(1, maxFieldLength)),
		validation.Field(&q.PortCountry, validation.Required, validation.Length(1, maxFieldLength)),
		validation.Field(&q.InspectionDate, validation.Required, validation.Length(1, 100)),
	)
}
