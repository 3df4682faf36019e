package ledger

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Entry is one raw ledger event before reconciliation. Exactly one of
// Purchase/Payment carries a non-zero amount.
type Entry struct {
	Date        time.Time
	Description string
	SourceType  string
	ReferenceID string
	Purchase    decimal.Decimal
	Payment     decimal.Decimal
}

// StatementLine is an entry with its running balance after it was applied.
type StatementLine struct {
	Entry
	RunningBalance decimal.Decimal
}

// Summary totals for a reconciled statement.
// TotalCredit = max(0, TotalPurchases - TotalPaid), and equals the final
// running balance.
type Summary struct {
	TotalPurchases decimal.Decimal
	TotalPaid      decimal.Decimal
	TotalCredit    decimal.Decimal
}

// Reconcile sorts entries chronologically, walks them accumulating a running
// balance (+purchase, -payment, floored at zero) and returns the lines
// newest-first for display along with summary totals.
func Reconcile(entries []Entry) ([]StatementLine, Summary) {
	ordered := make([]Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	lines := make([]StatementLine, 0, len(ordered))
	balance := decimal.Zero
	var summary Summary
	summary.TotalPurchases = decimal.Zero
	summary.TotalPaid = decimal.Zero

	for _, e := range ordered {
		balance = balance.Add(e.Purchase).Sub(e.Payment)
		if balance.IsNegative() {
			balance = decimal.Zero
		}
		summary.TotalPurchases = summary.TotalPurchases.Add(e.Purchase)
		summary.TotalPaid = summary.TotalPaid.Add(e.Payment)
		lines = append(lines, StatementLine{Entry: e, RunningBalance: balance})
	}

	summary.TotalCredit = summary.TotalPurchases.Sub(summary.TotalPaid)
	if summary.TotalCredit.IsNegative() {
		summary.TotalCredit = decimal.Zero
	}

	// Newest first for display
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, summary
}

var nameCleaner = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName lowercases, strips diacritics and collapses whitespace so that
// "Médica  Ltda" and "medica ltda" compare equal.
func NormalizeName(s string) string {
	cleaned, _, err := transform.String(nameCleaner, s)
	if err != nil {
		cleaned = s
	}
	return strings.Join(strings.Fields(strings.ToLower(cleaned)), " ")
}

// MatchesSupplier reports whether a recorded supplier name and a queried one
// refer to the same supplier: normalized substring match in either direction.
// This is a reconciliation aid over historical free-text rows; platform
// suppliers are matched by ID, never by name.
func MatchesSupplier(recorded, query string) bool {
	r := NormalizeName(recorded)
	q := NormalizeName(query)
	if r == "" || q == "" {
		return false
	}
	return strings.Contains(r, q) || strings.Contains(q, r)
}
