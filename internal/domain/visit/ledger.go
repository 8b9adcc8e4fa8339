package visit

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dentara/api/internal/dates"
)

// rawLedgerRow tolerates the client's loose typing: money fields arrive as
// numbers or as strings with thousands separators.
type rawLedgerRow struct {
	VisitDate    any `json:"visitDate"`
	Procedure    any `json:"procedure"`
	NextApptDate any `json:"nextApptDate"`
	Total        any `json:"total"`
	Paid         any `json:"paid"`
}

// NormalizeProcedures reconciles the alternate ledger representations into
// the canonical ordered list. Recognized shapes, in order: a flat array in
// procedures, a nested {"rows": [...]} object in procedures, and a legacy
// top-level rows array. Rows where every field is blank are discarded;
// a ledger with no surviving rows normalizes to nil ("no procedures
// recorded", distinct from an empty list). Input order is preserved.
func NormalizeProcedures(procedures, rows json.RawMessage) []LedgerEntry {
	raw := extractRows(procedures, rows)
	if raw == nil {
		return nil
	}

	var cleaned []LedgerEntry
	for _, r := range raw {
		if rowIsBlank(r) {
			continue
		}
		cleaned = append(cleaned, normalizeRow(r))
	}
	return cleaned
}

func extractRows(procedures, rows json.RawMessage) []rawLedgerRow {
	if len(procedures) > 0 && string(procedures) != "null" {
		var flat []rawLedgerRow
		if err := json.Unmarshal(procedures, &flat); err == nil {
			return flat
		}
		var nested struct {
			Rows []rawLedgerRow `json:"rows"`
		}
		if err := json.Unmarshal(procedures, &nested); err == nil && nested.Rows != nil {
			return nested.Rows
		}
	}
	if len(rows) > 0 && string(rows) != "null" {
		var flat []rawLedgerRow
		if err := json.Unmarshal(rows, &flat); err == nil {
			return flat
		}
	}
	return nil
}

func normalizeRow(r rawLedgerRow) LedgerEntry {
	total := parseMoney(r.Total)
	paid := parseMoney(r.Paid)
	return LedgerEntry{
		VisitDate:    dates.ToDateOnly(stringify(r.VisitDate)),
		Procedure:    strings.TrimSpace(stringify(r.Procedure)),
		NextApptDate: dates.ToDateOnly(stringify(r.NextApptDate)),
		Total:        total,
		Paid:         paid,
		Due:          clampNonNegative(total - paid),
	}
}

// rowIsBlank is true only when every field is empty: a money value alone
// is enough to keep a row.
func rowIsBlank(r rawLedgerRow) bool {
	return !hasValue(r.Procedure) &&
		!hasValue(r.VisitDate) &&
		!hasValue(r.NextApptDate) &&
		!hasValue(r.Total) &&
		!hasValue(r.Paid)
}

func hasValue(v any) bool {
	return strings.TrimSpace(stringify(v)) != ""
}

// stringify renders scalars the way the intake form serializes them;
// anything non-scalar is treated as empty.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// parseMoney strips thousands separators and parses; unparsable or
// negative values coerce to zero, never an error.
func parseMoney(v any) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(stringify(v), ",", ""))
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func clampNonNegative(n float64) float64 {
	if n < 0 {
		return 0
	}
	return n
}
