package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
	"github.com/shopspring/decimal"
)

// Column positions inside an uploaded sheet.
const (
	ColUserID = iota
	ColOutTradeNo
	ColAmount
	ColStatus
)

// Field names reported by ValidationError.
const (
	FieldUserID     = "user_id"
	FieldOutTradeNo = "out_trade_no"
	FieldAmount     = "total_amount"
)

// Amounts are stored as NUMERIC(18, 2).
const (
	AmountScale         = 2
	AmountIntegerDigits = 16
)

// Exponent bounds checked before any decimal is rescaled. A short cell such
// as "1e2000000000" would otherwise expand into a huge integer.
const (
	maxUserIDExponent = 18
	minUserIDExponent = -18
	maxAmountExponent = AmountIntegerDigits
	minAmountExponent = -64
)

var maxAmount = decimal.New(1, AmountIntegerDigits)

// ValidateRow turns a raw row into an order or explains why it cannot.
// It has no side effects and the same row always yields the same answer.
func ValidateRow(row entity.RawRow) (entity.Order, error) {
	userID, reason := parseUserID(row.Field(ColUserID))
	if reason != "" {
		return entity.Order{}, &ValidationError{Line: row.Line, Field: FieldUserID, Reason: reason}
	}

	outTradeNo := strings.TrimSpace(row.Field(ColOutTradeNo))
	if outTradeNo == "" {
		return entity.Order{}, &ValidationError{Line: row.Line, Field: FieldOutTradeNo, Reason: "is required"}
	}

	amount, reason := parseAmount(row.Field(ColAmount))
	if reason != "" {
		return entity.Order{}, &ValidationError{Line: row.Line, Field: FieldAmount, Reason: reason}
	}

	status := strings.TrimSpace(row.Field(ColStatus))
	if status == "" {
		status = entity.OrderStatusCreated
	}

	return entity.Order{
		Line:       row.Line,
		UserID:     userID,
		OutTradeNo: outTradeNo,
		Amount:     amount,
		Status:     status,
	}, nil
}

func parseUserID(raw string) (int64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "is required"
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// spreadsheets may hand back numeric cells as "1001.0" or "1.001E+3"
		d, derr := decimal.NewFromString(raw)
		if derr != nil {
			return 0, "must be an integer"
		}
		if d.Exponent() > maxUserIDExponent {
			return 0, "is out of range"
		}
		if d.Exponent() < minUserIDExponent || !d.IsInteger() {
			return 0, "must be an integer"
		}
		id = d.IntPart()
		if !d.Equal(decimal.NewFromInt(id)) {
			return 0, "is out of range"
		}
	}

	if id <= 0 {
		return 0, "must be greater than zero"
	}

	return id, ""
}

func parseAmount(raw string) (decimal.Decimal, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, "is required"
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, "must be a decimal number"
	}

	if amount.Sign() <= 0 {
		return decimal.Zero, "must be greater than zero"
	}

	if amount.Exponent() > maxAmountExponent || amount.Exponent() < minAmountExponent {
		return decimal.Zero, "is out of range"
	}

	if !amount.Equal(amount.Truncate(AmountScale)) {
		return decimal.Zero, fmt.Sprintf("must have at most %d decimal places", AmountScale)
	}

	if amount.Cmp(maxAmount) >= 0 {
		return decimal.Zero, fmt.Sprintf("must have at most %d integer digits", AmountIntegerDigits)
	}

	return amount, ""
}
