package models

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Availability is an inspector's current availability status.
type Availability string

const (
	AvailabilityAvailable   Availability = "AVAILABLE"
	AvailabilityBusy        Availability = "BUSY"
	AvailabilityOnLeave     Availability = "ON LEAVE"
	AvailabilityUnavailable Availability = "UNAVAILABLE"
)

// maxFieldLength bounds short profile strings, in bytes.
const maxFieldLength = 500

// Vessel is the vessel an inspector is currently assigned to.
type Vessel struct {
	Name string `json:"name"`
	IMO  string `json:"imo"`
	Type string `json:"type"`
}

func (v Vessel) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Name, validation.Length(0, maxFieldLength)),
		validation.Field(&v.IMO, validation.Length(0, 50)),
		validation.Field(&v.Type, validation.Length(0, maxFieldLength)),
	)
}

// User is a registered inspector account. PasswordHash is never serialised.
type User struct {
	ID                 string       `json:"id"`
	Email              string       `json:"email"`
	PasswordHash       string       `json:"-"`
	IsProfileComplete  bool         `json:"isProfileComplete"`
	FullName           string       `json:"fullName"`
	Title              string       `json:"title"`
	EmployeeID         string       `json:"employeeId"`
	LicenseNumber      string       `json:"licenseNumber"`
	Certifications     string       `json:"certifications"`
	Experience         string       `json:"experience"`
	Company            string       `json:"company"`
	Phone              string       `json:"phone"`
	ShipSpecialization []string     `json:"shipSpecialization"`
	Availability       Availability `json:"availability"`
	Location           string       `json:"location"`
	AdditionalNotes    string       `json:"additionalNotes"`
	Signature          string       `json:"signature"`
	CurrentVessel      Vessel       `json:"currentVessel"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// Validate runs the field validators of the credential store.
func (u *User) Validate() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Email, validation.Required, is.Email),
		validation.Field(&u.FullName, validation.Length(0, maxFieldLength)),
		validation.Field(&u.Title, validation.Length(0, maxFieldLength)),
		validation.Field(&u.EmployeeID, validation.Length(0, maxFieldLength)),
		validation.Field(&u.LicenseNumber, validation.Length(0, maxFieldLength)),
		validation.Field(&u.Certifications, validation.Length(0, maxFieldLength)),
		validation.Field(&u.Experience, validation.Length(0, maxFieldLength)),
		validation.Field(&u.Company, validation.Length(0, maxFieldLength)),
		validation.Field(&u.Phone, validation.Length(0, 50)),
		validation.Field(&u.ShipSpecialization, validation.By(nonEmptyItems)),
		validation.Field(&u.Availability, validation.In(
			AvailabilityAvailable, AvailabilityBusy, AvailabilityOnLeave, AvailabilityUnavailable,
		)),
		validation.Field(&u.Location, validation.Length(0, maxFieldLength)),
		validation.Field(&u.CurrentVessel),
	)
}

func nonEmptyItems(value interface{}) error {
	items, _ := value.([]string)
	for _, s := range items {
		if s == "" {
			return errors.New("must not contain empty values")
		}
	}
	return nil
}
