package pipeline

import (
	"fmt"
	"io"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
)

type sliceSource struct {
	rows    []entity.RawRow
	pos     int
	failErr error
	closed  bool
}

func (s *sliceSource) Next() (entity.RawRow, error) {
	if s.pos >= len(s.rows) {
		if s.failErr != nil {
			return entity.RawRow{}, s.failErr
		}
		return entity.RawRow{}, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

// orderRows builds a header line followed by n order lines. Lines listed in
// negative get a negative amount and fail validation.
func orderRows(n int, negative ...int) []entity.RawRow {
	bad := make(map[int]bool, len(negative))
	for _, line := range negative {
		bad[line] = true
	}

	rows := []entity.RawRow{{Line: 1, Fields: []string{"user_id", "out_trade_no", "total_amount", "status"}}}
	for i := 1; i <= n; i++ {
		line := i + 1
		amount := "12.50"
		if bad[line] {
			amount = "-1"
		}
		rows = append(rows, entity.RawRow{
			Line:   line,
			Fields: []string{fmt.Sprint(1000 + i), fmt.Sprintf("T-%05d", i), amount, "PAID"},
		})
	}
	return rows
}
