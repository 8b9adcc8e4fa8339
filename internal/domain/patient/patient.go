package patient

import "time"

// Row is a patient record as stored by the platform. Column naming is
// owned by the external schema; ids are opaque strings minted there.
type Row struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`

	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	DOB       *string `json:"dob"`
	Gender    string  `json:"gender"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email"`

	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Pincode      *string `json:"pincode"`

	Occupation       *string `json:"occupation"`
	EmergencyContact *string `json:"emergency_contact"`

	// PhotoURL holds either a canonical object path inside the photo
	// bucket or an external URL; it is never stored in signed form.
	PhotoURL *string `json:"photo_url"`
}

// Candidate is the canonical patient half of the atomic create. Field
// names match the external procedure's expected snake_case arguments.
type Candidate struct {
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	DOB              *string `json:"dob"`
	Gender           string  `json:"gender"`
	Phone            string  `json:"phone"`
	Email            *string `json:"email"`
	AddressLine1     *string `json:"address_line1"`
	AddressLine2     *string `json:"address_line2"`
	City             *string `json:"city"`
	State            *string `json:"state"`
	Pincode          *string `json:"pincode"`
	Occupation       *string `json:"occupation"`
	EmergencyContact *string `json:"emergency_contact"`
	PhotoURL         *string `json:"photo_url"`
}

// Meta is the quick summary returned alongside a single patient fetch.
type Meta struct {
	HasMedicalHistory bool       `json:"hasMedicalHistory"`
	LastVisitAt       *time.Time `json:"lastVisitAt"`
}
