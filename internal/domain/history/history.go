// Package history holds the medical history half of a patient record: a
// fixed set of condition flags, each with an optional free-text detail,
// plus narrative fields. No field is mandatory.
package history

// Row is the canonical medical history record, in the external schema's
// snake_case column naming. The string answer fields ("surgery or
// hospitalized" etc.) carry the intake form's yes/no radio values and
// default to empty rather than null.
type Row struct {
	SurgeryOrHospitalized string  `json:"surgery_or_hospitalized"`
	SurgeryDetails        *string `json:"surgery_details"`

	FeverColdCough string  `json:"fever_cold_cough"`
	FeverDetails   *string `json:"fever_details"`

	ArtificialValvesPacemaker bool    `json:"artificial_valves_pacemaker"`
	Asthma                    bool    `json:"asthma"`
	Allergy                   bool    `json:"allergy"`
	BleedingTendency          bool    `json:"bleeding_tendency"`
	EpilepsySeizure           bool    `json:"epilepsy_seizure"`
	HeartDisease              bool    `json:"heart_disease"`
	HypHypertension           bool    `json:"hyp_hypertension"`
	HormoneDisorder           bool    `json:"hormone_disorder"`
	JaundiceLiver             bool    `json:"jaundice_liver"`
	StomachUlcer              bool    `json:"stomach_ulcer"`
	LowHighPressure           bool    `json:"low_high_pressure"`
	ArthritisJoint            bool    `json:"arthritis_joint"`
	KidneyProblems            bool    `json:"kidney_problems"`
	ThyroidProblems           bool    `json:"thyroid_problems"`
	OtherProblem              bool    `json:"other_problem"`
	OtherProblemText          *string `json:"other_problem_text"`

	AbnormalBleedingHistory string  `json:"abnormal_bleeding_history"`
	AbnormalBleedingDetails *string `json:"abnormal_bleeding_details"`

	TakingMedicine  string  `json:"taking_medicine"`
	MedicineDetails *string `json:"medicine_details"`

	MedicationAllergy        string  `json:"medication_allergy"`
	MedicationAllergyDetails *string `json:"medication_allergy_details"`

	PastDentalHistory *string `json:"past_dental_history"`
}
