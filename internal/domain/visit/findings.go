package visit

import "encoding/json"

// GridInput carries the two alternate client representations of the
// findings chart: a pre-built findings object, or four parallel sequences
// indexed by tooth position.
type GridInput struct {
	Findings    json.RawMessage
	UpperGrades []string
	LowerGrades []string
	UpperStatus []string
	LowerStatus []string
}

// NormalizeFindings reconciles a GridInput into the canonical grid.
// A well-formed pre-built findings object wins and is returned unchanged.
// Otherwise, if any of the parallel sequences is present, a full grid is
// built by index with empty strings for missing positions. Neither form
// present means no findings were recorded: nil, never an error.
func NormalizeFindings(in GridInput) *FindingsGrid {
	if len(in.Findings) > 0 && string(in.Findings) != "null" {
		var grid FindingsGrid
		if err := json.Unmarshal(in.Findings, &grid); err == nil && (grid.Upper != nil || grid.Lower != nil) {
			return &grid
		}
	}

	if in.UpperGrades != nil || in.LowerGrades != nil || in.UpperStatus != nil || in.LowerStatus != nil {
		return &FindingsGrid{
			Upper: buildArch(in.UpperGrades, in.UpperStatus),
			Lower: buildArch(in.LowerGrades, in.LowerStatus),
		}
	}

	return nil
}

// buildArch fills all sixteen positions; short or absent inputs degrade to
// empty-string entries rather than failing.
func buildArch(grades, status []string) []ToothEntry {
	arch := make([]ToothEntry, ArchSize)
	for i := 0; i < ArchSize; i++ {
		entry := ToothEntry{Tooth: toothSequence[i]}
		if i < len(grades) {
			entry.Grade = grades[i]
		}
		if i < len(status) {
			entry.Status = status[i]
		}
		arch[i] = entry
	}
	return arch
}
