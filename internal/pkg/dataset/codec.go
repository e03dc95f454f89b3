// Package dataset reads, validates and writes college placement tables.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
)

const objectPrefix = "placement_data_"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a raw, untyped grid of cells with a header row.
type Table struct {
	Header []string
	Rows   [][]string
}

// ObjectPath returns the store path of a college dataset in the given format.
func ObjectPath(collegeCode string, format domain.SourceFormat) string {
	return objectPrefix + collegeCode + "." + string(format)
}

// FormatFromFilename maps a file name to a supported dataset format.
func FormatFromFilename(name string) (domain.SourceFormat, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return domain.FormatCSV, nil
	case strings.HasSuffix(lower, ".xlsx"):
		return domain.FormatXLSX, nil
	default:
		return "", apperrors.NewCustomError(apperrors.ErrUnsupportedFormat,
			fmt.Sprintf("unsupported dataset file %q, expected .csv or .xlsx", name))
	}
}

// ReadTable parses raw bytes in the given format.
func ReadTable(format domain.SourceFormat, data []byte) (*Table, error) {
	switch format {
	case domain.FormatCSV:
		return readCSV(data)
	case domain.FormatXLSX:
		return readXLSX(data)
	default:
		return nil, apperrors.NewCustomError(apperrors.ErrUnsupportedFormat,
			fmt.Sprintf("unsupported dataset format %q", format))
	}
}

func readCSV(data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, invalidFile("csv", err)
	}

	table := &Table{Header: header}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalidFile("csv", err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func readXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, invalidFile("xlsx", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, invalidFile("xlsx", err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}
	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

func invalidFile(kind string, err error) error {
	return apperrors.NewCustomError(apperrors.ErrDatasetInvalid,
		fmt.Sprintf("could not parse %s file: %v", kind, err))
}

// Encode writes the dataset in the given format with only the required columns.
func Encode(format domain.SourceFormat, ds *domain.Dataset) ([]byte, error) {
	switch format {
	case domain.FormatCSV:
		return EncodeCSV(ds)
	case domain.FormatXLSX:
		return EncodeXLSX(ds)
	default:
		return nil, apperrors.NewCustomError(apperrors.ErrUnsupportedFormat,
			fmt.Sprintf("unsupported dataset format %q", format))
	}
}

// EncodeCSV writes the dataset as CSV.
func EncodeCSV(ds *domain.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(domain.RequiredColumns); err != nil {
		return nil, err
	}
	for _, rec := range ds.Records {
		if err := w.Write(recordCells(rec)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeXLSX writes the dataset as a single-sheet workbook.
func EncodeXLSX(ds *domain.Dataset) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := writeHeader(f, sheet); err != nil {
		return nil, err
	}

	for i, rec := range ds.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			rec.CGPA,
			rec.Package,
			rec.Company,
			rec.Branch,
			internshipLabel(rec.Internship),
			rec.Year,
			strings.Join(rec.Skills, ", "),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// Template returns an empty workbook holding only the required header row.
func Template() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeHeader(f, f.GetSheetName(0)); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to build template: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string) error {
	header := make([]interface{}, len(domain.RequiredColumns))
	for i, c := range domain.RequiredColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

func recordCells(rec domain.PlacementRecord) []string {
	return []string{
		formatFloat(rec.CGPA),
		formatFloat(rec.Package),
		rec.Company,
		rec.Branch,
		internshipLabel(rec.Internship),
		rec.Year,
		strings.Join(rec.Skills, ", "),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func internshipLabel(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
