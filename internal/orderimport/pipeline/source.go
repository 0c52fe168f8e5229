package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
	"github.com/xuri/excelize/v2"
)

// RowSource yields sheet lines one at a time. Next returns io.EOF once the
// input is exhausted; any other error means the stream is corrupt.
type RowSource interface {
	Next() (entity.RawRow, error)
	Close() error
}

// FormatFromFileName picks the decoder for an uploaded file name.
func FormatFromFileName(name string) (entity.FileFormat, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(name))) {
	case ".xlsx", ".xlsm":
		return entity.FileFormatXLSX, nil
	case ".csv":
		return entity.FileFormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// OpenSource builds the RowSource for format on top of r.
func OpenSource(format entity.FileFormat, r io.Reader) (RowSource, error) {
	switch format {
	case entity.FileFormatXLSX:
		return NewXLSXSource(r)
	case entity.FileFormatCSV:
		return NewCSVSource(r), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// XLSXSource streams the first worksheet of a workbook.
//
// excelize buffers the zip archive but decodes worksheet rows lazily through
// its Rows iterator, spilling large sheets to a temp file.
type XLSXSource struct {
	file *excelize.File
	rows *excelize.Rows
	line int
}

func NewXLSXSource(r io.Reader) (*XLSXSource, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", ErrFatalRead, err)
	}

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		_ = file.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrFatalRead)
	}

	rows, err := file.Rows(sheets[0])
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: open sheet %q: %w", ErrFatalRead, sheets[0], err)
	}

	return &XLSXSource{file: file, rows: rows}, nil
}

func (s *XLSXSource) Next() (entity.RawRow, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return entity.RawRow{}, fmt.Errorf("read worksheet after line %d: %w", s.line, err)
		}
		return entity.RawRow{}, io.EOF
	}

	s.line++
	cols, err := s.rows.Columns()
	if err != nil {
		return entity.RawRow{}, fmt.Errorf("read worksheet line %d: %w", s.line, err)
	}

	return entity.RawRow{Line: s.line, Fields: trimFields(cols)}, nil
}

func (s *XLSXSource) Close() error {
	return errors.Join(s.rows.Close(), s.file.Close())
}

// CSVSource streams comma separated records.
type CSVSource struct {
	reader *csv.Reader
	first  bool
}

func NewCSVSource(r io.Reader) *CSVSource {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	return &CSVSource{reader: reader, first: true}
}

func (s *CSVSource) Next() (entity.RawRow, error) {
	record, err := s.reader.Read()
	if err == io.EOF {
		return entity.RawRow{}, io.EOF
	}
	if err != nil {
		return entity.RawRow{}, fmt.Errorf("read csv: %w", err)
	}

	line, _ := s.reader.FieldPos(0)
	fields := trimFields(record)
	if s.first {
		s.first = false
		if len(fields) > 0 {
			fields[0] = strings.TrimPrefix(fields[0], "\ufeff")
		}
	}

	return entity.RawRow{Line: line, Fields: fields}, nil
}

func (s *CSVSource) Close() error {
	return nil
}

// trimFields copies values so callers may keep them after the next read.
func trimFields(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func isBlank(row entity.RawRow) bool {
	for _, f := range row.Fields {
		if f != "" {
			return false
		}
	}
	return true
}
