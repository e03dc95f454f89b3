package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
)

// MissingColumnsError rejects a table that lacks required columns.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

func (e *MissingColumnsError) Unwrap() error {
	return apperrors.ErrMissingColumns
}

// CellError rejects a table with a value that cannot be coerced.
// Row is the 1-based spreadsheet row, counting the header as row 1.
type CellError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d, column %s: %s (got %q)", e.Row, e.Column, e.Reason, e.Value)
}

func (e *CellError) Unwrap() error {
	return apperrors.ErrDatasetInvalid
}

// Normalize validates the header of table and coerces every row into a
// PlacementRecord. Extra columns are ignored. The table is accepted or
// rejected as a whole.
func Normalize(collegeCode string, table *Table) (*domain.Dataset, error) {
	index := make(map[string]int, len(table.Header))
	for i, name := range table.Header {
		name = strings.TrimSpace(name)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	ds := &domain.Dataset{
		CollegeCode: collegeCode,
		Records:     make([]domain.PlacementRecord, 0, len(table.Rows)),
	}

	for i, row := range table.Rows {
		if blankRow(row) {
			continue
		}
		cell := func(col string) string {
			idx := index[col]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		rec, err := coerceRow(i+2, cell)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

func coerceRow(line int, cell func(string) string) (domain.PlacementRecord, error) {
	var rec domain.PlacementRecord

	raw := cell(domain.ColumnCGPA)
	cgpa, ok := parseNumber(raw)
	if !ok || cgpa < 0 || cgpa > 10 {
		return rec, &CellError{Row: line, Column: domain.ColumnCGPA, Value: raw, Reason: "expected a number between 0 and 10"}
	}
	rec.CGPA = cgpa

	raw = cell(domain.ColumnPackage)
	if raw != "" {
		pkg, ok := parseNumber(raw)
		if !ok || pkg < 0 {
			return rec, &CellError{Row: line, Column: domain.ColumnPackage, Value: raw, Reason: "expected a non-negative number"}
		}
		rec.Package = pkg
	}

	raw = cell(domain.ColumnInternship)
	internship, ok := parseYesNo(raw)
	if !ok {
		return rec, &CellError{Row: line, Column: domain.ColumnInternship, Value: raw, Reason: "expected Yes or No"}
	}
	rec.Internship = internship

	rec.Company = cell(domain.ColumnCompany)
	rec.Branch = cell(domain.ColumnBranch)
	rec.Year = normalizeYear(cell(domain.ColumnYear))
	rec.Skills = domain.SplitSkills(cell(domain.ColumnSkills))

	return rec, nil
}

func parseNumber(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseYesNo(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "yes", "y", "true", "1":
		return true, true
	case "no", "n", "false", "0", "":
		return false, true
	default:
		return false, false
	}
}

// maxExactYear bounds the values normalizeYear rewrites; larger floats no
// longer hold every integer and may not fit an int64.
const maxExactYear = 1e15

// normalizeYear renders integral numbers such as "2023.0" as "2023".
func normalizeYear(raw string) string {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != math.Trunc(v) || math.Abs(v) >= maxExactYear {
		return raw
	}
	return strconv.FormatInt(int64(v), 10)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Parse reads raw bytes and normalizes them in one step.
func Parse(collegeCode string, format domain.SourceFormat, data []byte) (*domain.Dataset, error) {
	table, err := ReadTable(format, data)
	if err != nil {
		return nil, err
	}
	return Normalize(collegeCode, table)
}
