package models

// VesselUpdate carries the vessel sub-fields of a profile update. A nil
// field leaves the stored value unchanged.
type VesselUpdate struct {
	Name *string `json:"name"`
	IMO  *string `json:"imo"`
	Type *string `json:"type"`
}

// ProfileUpdate is the allow-list of profile fields a user may change.
// Keys outside this struct are dropped by the JSON decoder and can never
// reach the store.
type ProfileUpdate struct {
	FullName           *string       `json:"fullName"`
	Title              *string       `json:"title"`
	EmployeeID         *string       `json:"employeeId"`
	LicenseNumber      *string       `json:"licenseNumber"`
	Certifications     *string       `json:"certifications"`
	Experience         *string       `json:"experience"`
	Company            *string       `json:"company"`
	Phone              *string       `json:"phone"`
	Email              *string       `json:"email"`
	ShipSpecialization *[]string     `json:"shipSpecialization"`
	Availability       *Availability `json:"availability"`
	Location           *string       `json:"location"`
	AdditionalNotes    *string       `json:"additionalNotes"`
	Signature          *string       `json:"signature"`
	CurrentVessel      *VesselUpdate `json:"currentVessel"`
}

// FieldChange is one staged column assignment.
type FieldChange struct {
	Column string
	Value  any
}

// ColumnProfileComplete is always part of a staged profile update.
const ColumnProfileComplete = "is_profile_complete"

// Changes stages one FieldChange per present field, in a fixed order,
// followed by is_profile_complete = true.
func (p ProfileUpdate) Changes() []FieldChange {
	var out []FieldChange
	str := func(col string, v *string) {
		if v != nil {
			out = append(out, FieldChange{Column: col, Value: *v})
		}
	}

	str("full_name", p.FullName)
	str("title", p.Title)
	str("employee_id", p.EmployeeID)
	str("license_number", p.LicenseNumber)
	str("certifications", p.Certifications)
	str("experience", p.Experience)
	str("company", p.Company)
	str("phone", p.Phone)
	str("email", p.Email)
	if p.ShipSpecialization != nil {
		specs := *p.ShipSpecialization
		if specs == nil {
			specs = []string{}
		}
		out = append(out, FieldChange{Column: "ship_specialization", Value: specs})
	}
	if p.Availability != nil {
		out = append(out, FieldChange{Column: "availability", Value: string(*p.Availability)})
	}
	str("location", p.Location)
	str("additional_notes", p.AdditionalNotes)
	str("signature", p.Signature)
	if v := p.CurrentVessel; v != nil {
		str("vessel_name", v.Name)
		str("vessel_imo", v.IMO)
		str("vessel_type", v.Type)
	}

	return append(out, FieldChange{Column: ColumnProfileComplete, Value: true})
}

// ApplyTo returns a copy of u with the update applied, the same way the
// store applies Changes. It is used to run the validators before writing.
func (p ProfileUpdate) ApplyTo(u User) User {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}

	set(&u.FullName, p.FullName)
	set(&u.Title, p.Title)
	set(&u.EmployeeID, p.EmployeeID)
	set(&u.LicenseNumber, p.LicenseNumber)
	set(&u.Certifications, p.Certifications)
	set(&u.Experience, p.Experience)
	set(&u.Company, p.Company)
	set(&u.Phone, p.Phone)
	set(&u.Email, p.Email)
	if p.ShipSpecialization != nil {
		u.ShipSpecialization = append([]string{}, (*p.ShipSpecialization)...)
	}
	if p.Availability != nil {
		u.Availability = *p.Availability
	}
	set(&u.Location, p.Location)
	set(&u.AdditionalNotes, p.AdditionalNotes)
	set(&u.Signature, p.Signature)
	if v := p.CurrentVessel; v != nil {
		set(&u.CurrentVessel.Name, v.Name)
		set(&u.CurrentVessel.IMO, v.IMO)
		set(&u.CurrentVessel.Type, v.Type)
	}
	u.IsProfileComplete = true
	return u
}
