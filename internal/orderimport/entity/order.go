package entity

import "github.com/shopspring/decimal"

// RawRow is one decoded sheet line before validation. Line is 1-based and
// counts header rows, so it matches what a user sees in a spreadsheet.
type RawRow struct {
	Line   int
	Fields []string
}

// Field returns the trimmed value at idx, or "" when the row is shorter.
func (r RawRow) Field(idx int) string {
	if idx < 0 || idx >= len(r.Fields) {
		return ""
	}
	return r.Fields[idx]
}

type Order struct {
	ID         int64
	Line       int
	UserID     int64
	OutTradeNo string
	Amount     decimal.Decimal
	Status     string
}
