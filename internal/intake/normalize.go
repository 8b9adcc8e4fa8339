package intake

import (
	"strings"
	"time"

	"github.com/dentara/api/internal/dates"
	"github.com/dentara/api/internal/domain/history"
	"github.com/dentara/api/internal/domain/patient"
	"github.com/dentara/api/internal/domain/visit"
)

// PathResolver classifies a photo reference: the canonical object path
// when the reference points into our bucket, ok=false for external URLs.
type PathResolver interface {
	PathFromURL(urlOrPath string) (string, bool)
}

// BuildCreate reshapes one submission into the three candidates the atomic
// create expects. uploadedPath, when non-empty, is the object path of a
// binary uploaded with this request and takes precedence over any
// client-supplied photo reference. Candidates come back unvalidated.
func BuildCreate(sub *Submission, uploadedPath string, r PathResolver) (*patient.Candidate, *history.Row, *visit.Row) {
	profile := mergeProfiles(&sub.ProfilePayload, sub.PatientProfile)

	c := &patient.Candidate{
		FirstName:        deref(profile.FirstName),
		LastName:         deref(profile.LastName),
		DOB:              toDateOnly(profile.DOB),
		Gender:           deref(profile.Gender),
		Phone:            deref(profile.Phone),
		Email:            lowered(profile.Email),
		AddressLine1:     profile.AddressLine1,
		AddressLine2:     profile.AddressLine2,
		City:             profile.City,
		State:            profile.State,
		Pincode:          profile.Pincode,
		Occupation:       profile.Occupation,
		EmergencyContact: profile.EmergencyContact,
		PhotoURL:         photoReference(profile, uploadedPath, r),
	}

	mh := sub.MedicalHistory
	if mh == nil && sub.PatientProfile != nil {
		mh = sub.PatientProfile.MedicalHistory
	}

	return c, buildHistory(mh), buildVisit(sub)
}

// BuildPatch reshapes a partial profile update into a column patch.
// Only fields present in the payload appear in the patch; the photo
// follows the presence rules of PhotoField, so an absent photo field
// leaves the stored reference alone while an explicit null clears it.
// An uploaded binary's path, when present, wins over both.
func BuildPatch(p *ProfilePayload, uploadedPath string, r PathResolver) map[string]any {
	patch := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			patch[col] = *v
		}
	}

	set("first_name", p.FirstName)
	set("last_name", p.LastName)
	set("gender", p.Gender)
	set("phone", p.Phone)
	set("address_line1", p.AddressLine1)
	set("address_line2", p.AddressLine2)
	set("city", p.City)
	set("state", p.State)
	set("pincode", p.Pincode)
	set("occupation", p.Occupation)
	set("emergency_contact", p.EmergencyContact)

	if p.DOB != nil {
		patch["dob"] = dates.ToDateOnly(*p.DOB)
	}
	if p.Email != nil {
		patch["email"] = strings.ToLower(*p.Email)
	}

	if uploadedPath != "" {
		patch["photo_url"] = uploadedPath
	} else if value, present := clientPhoto(p); present {
		if value == nil {
			patch["photo_url"] = nil
		} else if path, ok := r.PathFromURL(*value); ok {
			patch["photo_url"] = path
		} else {
			patch["photo_url"] = *value
		}
	}

	return patch
}

// mergeProfiles applies the precedence rule for the doubled profile
// shape: a field present in the nested patientProfile object wins over
// the same field at the top level.
func mergeProfiles(top, nested *ProfilePayload) *ProfilePayload {
	if nested == nil {
		return top
	}

	merged := *nested
	pick := func(dst **string, fallback *string) {
		if *dst == nil {
			*dst = fallback
		}
	}
	pick(&merged.FirstName, top.FirstName)
	pick(&merged.LastName, top.LastName)
	pick(&merged.DOB, top.DOB)
	pick(&merged.Gender, top.Gender)
	pick(&merged.Phone, top.Phone)
	pick(&merged.Email, top.Email)
	pick(&merged.AddressLine1, top.AddressLine1)
	pick(&merged.AddressLine2, top.AddressLine2)
	pick(&merged.City, top.City)
	pick(&merged.State, top.State)
	pick(&merged.Pincode, top.Pincode)
	pick(&merged.Occupation, top.Occupation)
	pick(&merged.EmergencyContact, top.EmergencyContact)

	if !merged.PhotoURL.Set {
		merged.PhotoURL = top.PhotoURL
	}
	if !merged.Photo.Set {
		merged.Photo = top.Photo
	}
	return &merged
}

// clientPhoto resolves the two aliased photo fields into one value.
// photoUrl wins over the structured photo object when both are present.
func clientPhoto(p *ProfilePayload) (*string, bool) {
	if p.PhotoURL.Set {
		return p.PhotoURL.Value, true
	}
	if p.Photo.Set {
		return p.Photo.Value, true
	}
	return nil, false
}

// photoReference picks the stored reference for a create: uploaded binary
// first, then the client-supplied value classified through the resolver.
// Our bucket URLs collapse to the object path; external URLs are kept
// verbatim.
func photoReference(p *ProfilePayload, uploadedPath string, r PathResolver) *string {
	if uploadedPath != "" {
		return &uploadedPath
	}

	value, present := clientPhoto(p)
	if !present || value == nil {
		return nil
	}
	if path, ok := r.PathFromURL(*value); ok {
		return &path
	}
	return value
}

func buildHistory(mh *HistoryPayload) *history.Row {
	if mh == nil {
		mh = &HistoryPayload{}
	}
	return &history.Row{
		SurgeryOrHospitalized: deref(mh.SurgeryOrHospitalized),
		SurgeryDetails:        mh.SurgeryDetails,

		FeverColdCough: deref(mh.FeverColdCough),
		FeverDetails:   mh.FeverDetails,

		ArtificialValvesPacemaker: bool(mh.ArtificialValvesPacemaker),
		Asthma:                    bool(mh.Asthma),
		Allergy:                   bool(mh.Allergy),
		BleedingTendency:          bool(mh.BleedingTendency),
		EpilepsySeizure:           bool(mh.EpilepsySeizure),
		HeartDisease:              bool(mh.HeartDisease),
		HypHypertension:           bool(mh.HypHypertension),
		HormoneDisorder:           bool(mh.HormoneDisorder),
		JaundiceLiver:             bool(mh.JaundiceLiver),
		StomachUlcer:              bool(mh.StomachUlcer),
		LowHighPressure:           bool(mh.LowHighPressure),
		ArthritisJoint:            bool(mh.ArthritisJoint),
		KidneyProblems:            bool(mh.KidneyProblems),
		ThyroidProblems:           bool(mh.ThyroidProblems),
		OtherProblem:              bool(mh.OtherProblem),
		OtherProblemText:          mh.OtherProblemText,

		AbnormalBleedingHistory: deref(mh.AbnormalBleedingHistory),
		AbnormalBleedingDetails: mh.AbnormalBleedingDetails,

		TakingMedicine:  deref(mh.TakingMedicine),
		MedicineDetails: mh.MedicineDetails,

		MedicationAllergy:        deref(mh.MedicationAllergy),
		MedicationAllergyDetails: mh.MedicationAllergyDetails,

		PastDentalHistory: mh.PastDentalHistory,
	}
}

// buildVisit prefers an explicit initialVisit; otherwise it synthesizes
// one from the legacy dentalExam shape, checking the top level for a
// hoisted ledger before the exam object itself.
func buildVisit(sub *Submission) *visit.Row {
	src := sub.InitialVisit
	var procedures []visit.LedgerEntry

	if src == nil {
		procedures = visit.NormalizeProcedures(sub.Procedures, sub.Rows)
		src = sub.DentalExam
		if src == nil {
			src = &VisitPayload{}
		}
	}
	if procedures == nil {
		procedures = visit.NormalizeProcedures(src.Procedures, src.Rows)
	}

	findings := visit.NormalizeFindings(visit.GridInput{
		Findings:    src.Findings,
		UpperGrades: src.UpperGrades,
		LowerGrades: src.LowerGrades,
		UpperStatus: src.UpperStatus,
		LowerStatus: src.LowerStatus,
	})

	triggers := []string(src.TriggerFactors)
	if triggers == nil {
		triggers = []string{}
	}

	return &visit.Row{
		ChiefComplaint:     trimmedOrNil(src.ChiefComplaint),
		DurationOnset:      src.DurationOnset,
		TriggerFactors:     triggers,
		DiagnosisNotes:     src.DiagnosisNotes,
		TreatmentPlanNotes: src.TreatmentPlanNotes,
		Findings:           findings,
		Procedures:         procedures,
		VisitAt:            toTime(src.VisitAt),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func lowered(s *string) *string {
	if s == nil {
		return nil
	}
	l := strings.ToLower(*s)
	return &l
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func toDateOnly(s *string) *string {
	if s == nil {
		return nil
	}
	return dates.ToDateOnly(*s)
}

func toTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	return dates.ToTime(*s)
}
