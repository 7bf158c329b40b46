package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// InspectionStatus tracks an inspection job through its workflow.
type InspectionStatus string

const (
	InspectionPending    InspectionStatus = "Pending"
	InspectionInProgress InspectionStatus = "In Progress"
	InspectionCompleted  InspectionStatus = "Completed"
	InspectionCancelled  InspectionStatus = "Cancelled"
)

// MaxShipImages is the upper bound of ship images per inspection.
const MaxShipImages = 100

// Inspection is one inspection job. ShipImages and Logo hold storage
// references, not file contents.
type Inspection struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"`
	ShipName       string           `json:"shipName"`
	PortName       string           `json:"portName"`
	Status         InspectionStatus `json:"status"`
	InspectionType string           `json:"inspectionType"`
	InspectionDate time.Time        `json:"inspectionDate"`
	ShipImages     []string         `json:"shipImage"`
	Logo           string           `json:"logo"`
	ReportURL      string           `json:"reportUrl"`
	Notes          string           `json:"notes"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func (i *Inspection) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.UserID, validation.Required, is.UUID),
		validation.Field(&i.ShipName, validation.Required, validation.Length(1, maxFieldLength)),
		validation.Field(&i.PortName, validation.Required, validation.Length(1, maxFieldLength)),
		validation.Field(&i.InspectionType, validation.Required, validation.Length(1, maxFieldLength)),
		validation.Field(&i.InspectionDate, validation.Required),
		validation.Field(&i.Status, validation.Required, validation.In(
			InspectionPending, InspectionInProgress, InspectionCompleted, InspectionCancelled,
		)),
		validation.Field(&i.ShipImages, validation.Length(0, MaxShipImages)),
	)
}
