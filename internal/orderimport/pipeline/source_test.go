package pipeline

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
	"github.com/xuri/excelize/v2"
)

func TestFormatFromFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    entity.FileFormat
		wantErr bool
	}{
		{name: "orders.xlsx", want: entity.FileFormatXLSX},
		{name: "ORDERS.XLSX", want: entity.FileFormatXLSX},
		{name: "macro.xlsm", want: entity.FileFormatXLSX},
		{name: "orders.csv", want: entity.FileFormatCSV},
		{name: "legacy.xls", wantErr: true},
		{name: "orders.txt", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := FormatFromFileName(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("%q: expected ErrUnsupportedFormat, got %v", tt.name, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("%q: expected %s, got %s (%v)", tt.name, tt.want, got, err)
		}
	}
}

func TestOpenSourceUnsupported(t *testing.T) {
	t.Parallel()

	if _, err := OpenSource("xls", strings.NewReader("x")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestCSVSource(t *testing.T) {
	t.Parallel()

	input := "\ufeffuser_id,out_trade_no,total_amount,status\n" +
		"1001, T-1 ,19.90,PAID\n" +
		"\n" +
		",,,\n" +
		"1002,T-2,5\n"

	src, err := OpenSource(entity.FileFormatCSV, strings.NewReader(input))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	var rows []entity.RawRow
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		rows = append(rows, row)
	}

	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Field(0) != "user_id" {
		t.Fatalf("expected BOM to be stripped, got %q", rows[0].Field(0))
	}
	if rows[1].Line != 2 || rows[1].Field(1) != "T-1" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if !isBlank(rows[2]) || rows[2].Line != 4 {
		t.Fatalf("expected blank row on line 4, got %+v", rows[2])
	}
	if rows[3].Line != 5 || len(rows[3].Fields) != 3 {
		t.Fatalf("unexpected last row: %+v", rows[3])
	}
}

func TestCSVSourceMalformed(t *testing.T) {
	t.Parallel()

	src := NewCSVSource(strings.NewReader("1,\"T-1,2\n"))
	if _, err := src.Next(); err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestXLSXSource(t *testing.T) {
	t.Parallel()

	buf := buildWorkbook(t, [][]any{
		{"user_id", "out_trade_no", "total_amount", "status"},
		{1001, "T-1", 19.9, "PAID"},
		{1002, "T-2", "7.25"},
	})

	src, err := OpenSource(entity.FileFormatXLSX, buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	var rows []entity.RawRow
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		rows = append(rows, row)
	}

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if got := rows[1]; got.Line != 2 || got.Field(0) != "1001" || got.Field(2) != "19.9" {
		t.Fatalf("unexpected row: %+v", got)
	}
	if got := rows[2].Field(3); got != "" {
		t.Fatalf("expected empty status, got %q", got)
	}
}

func TestXLSXSourceRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := NewXLSXSource(strings.NewReader("definitely not a zip archive"))
	if !errors.Is(err, ErrFatalRead) {
		t.Fatalf("expected ErrFatalRead, got %v", err)
	}
}

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}
