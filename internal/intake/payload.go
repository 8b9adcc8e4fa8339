// Package intake decodes the browser clients' loosely shaped submission
// payloads and reshapes them into canonical record candidates. Decoding
// never rejects input; validation happens later in the service layer.
package intake

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PhotoField distinguishes "field absent" from "field explicitly null" on
// a photo reference. Clients send a bare URL string, an upload-widget
// object carrying url/thumbnailUrl/path, or null to clear.
type PhotoField struct {
	Set   bool
	Value *string
}

func (f *PhotoField) UnmarshalJSON(b []byte) error {
	f.Set = true
	f.Value = nil

	if string(b) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "" {
			f.Value = &s
		}
		return nil
	}

	var obj struct {
		URL          string `json:"url"`
		ThumbnailURL string `json:"thumbnailUrl"`
		Path         string `json:"path"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		for _, candidate := range []string{obj.URL, obj.ThumbnailURL, obj.Path} {
			if candidate != "" {
				f.Value = &candidate
				break
			}
		}
	}
	return nil
}

// Flag coerces whatever the form sends for a condition checkbox by
// truthiness: false, zero, null, and the empty string are false,
// everything else is true.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch raw {
	case "null", "false", "0", `""`:
		*f = false
		return nil
	case "true":
		*f = true
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = n != 0
		return nil
	}
	*f = true
	return nil
}

// StringList accepts either an array of strings or a lone scalar, which
// becomes a single-element list.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}

	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s == "" {
			*l = nil
		} else {
			*l = StringList{s}
		}
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*l = StringList{strconv.FormatFloat(n, 'f', -1, 64)}
		return nil
	}

	*l = nil
	return nil
}

// ProfilePayload is the client-side patient profile shape, camelCase as
// the forms send it. Pointer fields track presence for partial updates.
type ProfilePayload struct {
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	DOB              *string `json:"dob"`
	Gender           *string `json:"gender"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	AddressLine1     *string `json:"addressLine1"`
	AddressLine2     *string `json:"addressLine2"`
	City             *string `json:"city"`
	State            *string `json:"state"`
	Pincode          *string `json:"pincode"`
	Occupation       *string `json:"occupation"`
	EmergencyContact *string `json:"emergencyContact"`

	PhotoURL PhotoField `json:"photoUrl"`
	Photo    PhotoField `json:"photo"`

	// Some clients tuck the history step inside the profile object.
	MedicalHistory *HistoryPayload `json:"medicalHistory"`
}

// HistoryPayload mirrors the medical history step of the intake form.
type HistoryPayload struct {
	SurgeryOrHospitalized *string `json:"surgeryOrHospitalized"`
	SurgeryDetails        *string `json:"surgeryDetails"`

	FeverColdCough *string `json:"feverColdCough"`
	FeverDetails   *string `json:"feverDetails"`

	ArtificialValvesPacemaker Flag    `json:"artificialValvesPacemaker"`
	Asthma                    Flag    `json:"asthma"`
	Allergy                   Flag    `json:"allergy"`
	BleedingTendency          Flag    `json:"bleedingTendency"`
	EpilepsySeizure           Flag    `json:"epilepsySeizure"`
	HeartDisease              Flag    `json:"heartDisease"`
	HypHypertension           Flag    `json:"hypHypertension"`
	HormoneDisorder           Flag    `json:"hormoneDisorder"`
	JaundiceLiver             Flag    `json:"jaundiceLiver"`
	StomachUlcer              Flag    `json:"stomachUlcer"`
	LowHighPressure           Flag    `json:"lowHighPressure"`
	ArthritisJoint            Flag    `json:"arthritisJoint"`
	KidneyProblems            Flag    `json:"kidneyProblems"`
	ThyroidProblems           Flag    `json:"thyroidProblems"`
	OtherProblem              Flag    `json:"otherProblem"`
	OtherProblemText          *string `json:"otherProblemText"`

	AbnormalBleedingHistory *string `json:"abnormalBleedingHistory"`
	AbnormalBleedingDetails *string `json:"abnormalBleedingDetails"`

	TakingMedicine  *string `json:"takingMedicine"`
	MedicineDetails *string `json:"medicineDetails"`

	MedicationAllergy        *string `json:"medicationAllergy"`
	MedicationAllergyDetails *string `json:"medicationAllergyDetails"`

	PastDentalHistory *string `json:"pastDentalHistory"`
}

// VisitPayload is one visit step as submitted, carrying both findings
// representations and both ledger representations untouched; the visit
// package normalizers pick them apart.
type VisitPayload struct {
	ChiefComplaint     *string    `json:"chiefComplaint"`
	DurationOnset      *string    `json:"durationOnset"`
	TriggerFactors     StringList `json:"triggerFactors"`
	DiagnosisNotes     *string    `json:"diagnosisNotes"`
	TreatmentPlanNotes *string    `json:"treatmentPlanNotes"`
	VisitAt            *string    `json:"visitAt"`

	Findings    json.RawMessage `json:"findings"`
	UpperGrades []string        `json:"upperGrades"`
	LowerGrades []string        `json:"lowerGrades"`
	UpperStatus []string        `json:"upperStatus"`
	LowerStatus []string        `json:"lowerStatus"`

	Procedures json.RawMessage `json:"procedures"`
	Rows       json.RawMessage `json:"rows"`
}

// Submission is one full intake request. Profile fields may appear at the
// top level, inside a nested patientProfile object, or both; the visit
// arrives as initialVisit or as the legacy dentalExam shape, possibly with
// a ledger hoisted to the top level.
type Submission struct {
	ProfilePayload

	PatientProfile *ProfilePayload `json:"patientProfile"`
	MedicalHistory *HistoryPayload `json:"medicalHistory"`
	InitialVisit   *VisitPayload   `json:"initialVisit"`
	DentalExam     *VisitPayload   `json:"dentalExam"`

	Procedures json.RawMessage `json:"procedures"`
	Rows       json.RawMessage `json:"rows"`
}
