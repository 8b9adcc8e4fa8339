// Package visit holds the canonical visit record and the normalizers that
// reconcile the client's alternate findings-chart and procedure-ledger
// representations into one shape.
package visit

import "time"

// ArchSize is the number of tooth entries per arch in a findings grid.
const ArchSize = 16

// toothSequence is the fixed FDI-style tooth numbering across one arch,
// right quadrant descending then left quadrant ascending.
var toothSequence = [ArchSize]int{8, 7, 6, 5, 4, 3, 2, 1, 1, 2, 3, 4, 5, 6, 7, 8}

// ToothEntry is one cell of the findings grid.
type ToothEntry struct {
	Tooth  int    `json:"tooth"`
	Grade  string `json:"grade"`
	Status string `json:"status"`
}

// FindingsGrid is the canonical dental chart: exactly two arches of
// sixteen entries each, regardless of input completeness.
type FindingsGrid struct {
	Upper []ToothEntry `json:"upper"`
	Lower []ToothEntry `json:"lower"`
}

// LedgerEntry is one normalized billing/procedure row. Due is derived and
// never negative. Field naming matches the stored jsonb shape.
type LedgerEntry struct {
	VisitDate    *string `json:"visitDate"`
	Procedure    string  `json:"procedure"`
	NextApptDate *string `json:"nextApptDate"`
	Total        float64 `json:"total"`
	Paid         float64 `json:"paid"`
	Due          float64 `json:"due"`
}

// Row is the canonical visit half of the atomic create, in the external
// procedure's snake_case argument naming. Findings and Procedures are nil
// when nothing was recorded — distinct from an empty grid or list.
type Row struct {
	ChiefComplaint     *string       `json:"chief_complaint"`
	DurationOnset      *string       `json:"duration_onset"`
	TriggerFactors     []string      `json:"trigger_factors"`
	DiagnosisNotes     *string       `json:"diagnosis_notes"`
	TreatmentPlanNotes *string       `json:"treatment_plan_notes"`
	Findings           *FindingsGrid `json:"findings"`
	Procedures         []LedgerEntry `json:"procedures"`
	VisitAt            *time.Time    `json:"visit_at"`
}
