package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
)

const sampleCSV = "\ufeff CGPA , Package,Company,Branch,Internship,Year,Skills,Notes\n" +
	"8.5,12,Acme,CSE,Yes,2023,\"Python, SQL\",topper\n" +
	"6.1,0,,ECE,No,2023.0,\"C, Embedded\",\n" +
	",,,,,,,\n" +
	"7.25,6.5,Globex,CSE,no,2024,\"Java,, Spring \",\n"

func TestNormalizeCSV(t *testing.T) {
	ds, err := Parse("KLU01", domain.FormatCSV, []byte(sampleCSV))
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "KLU01", ds.CollegeCode)

	first := ds.Records[0]
	assert.Equal(t, 8.5, first.CGPA)
	assert.Equal(t, 12.0, first.Package)
	assert.True(t, first.Internship)
	assert.Equal(t, []string{"Python", "SQL"}, first.Skills)
	assert.True(t, first.Placed())

	second := ds.Records[1]
	assert.False(t, second.Placed())
	assert.Equal(t, "2023", second.Year)

	assert.Equal(t, []string{"Java", "Spring"}, ds.Records[2].Skills)
}

func TestNormalizeYear(t *testing.T) {
	tests := map[string]string{
		"2023":    "2023",
		"2023.0":  "2023",
		"-1.0":    "-1",
		"2023.5":  "2023.5",
		"2023-24": "2023-24",
		"1e30":    "1e30",
		"-1e19":   "-1e19",
		"Inf":     "Inf",
		"NaN":     "NaN",
	}
	for raw, want := range tests {
		assert.Equal(t, want, normalizeYear(raw), raw)
	}
}

func TestNormalizeRejectsMissingColumns(t *testing.T) {
	table := &Table{
		Header: []string{"CGPA", "Company", "Branch", "Extra"},
		Rows:   [][]string{{"8", "Acme", "CSE", "x"}},
	}

	ds, err := Normalize("KLU01", table)
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.True(t, errors.Is(err, apperrors.ErrMissingColumns))

	var missing *MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"Package", "Internship", "Year", "Skills"}, missing.Missing)
}

func TestNormalizeEmptyTable(t *testing.T) {
	_, err := Normalize("KLU01", &Table{})
	var missing *MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, domain.RequiredColumns, missing.Missing)
}

func TestNormalizeRejectsBadCells(t *testing.T) {
	header := domain.RequiredColumns
	tests := []struct {
		name   string
		row    []string
		column string
	}{
		{"cgpa not a number", []string{"eight", "1", "A", "CSE", "Yes", "2023", "Go"}, domain.ColumnCGPA},
		{"cgpa out of range", []string{"11", "1", "A", "CSE", "Yes", "2023", "Go"}, domain.ColumnCGPA},
		{"cgpa blank", []string{"", "1", "A", "CSE", "Yes", "2023", "Go"}, domain.ColumnCGPA},
		{"negative package", []string{"8", "-2", "A", "CSE", "Yes", "2023", "Go"}, domain.ColumnPackage},
		{"odd internship", []string{"8", "2", "A", "CSE", "maybe", "2023", "Go"}, domain.ColumnInternship},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize("X", &Table{Header: header, Rows: [][]string{tt.row}})
			var cellErr *CellError
			require.True(t, errors.As(err, &cellErr))
			assert.Equal(t, tt.column, cellErr.Column)
			assert.Equal(t, 2, cellErr.Row)
			assert.True(t, errors.Is(err, apperrors.ErrDatasetInvalid))
		})
	}
}

func TestNormalizeShortRowsTreatMissingCellsAsBlank(t *testing.T) {
	table := &Table{
		Header: domain.RequiredColumns,
		Rows:   [][]string{{"7.5", "", "", "MECH"}},
	}
	ds, err := Normalize("X", table)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, 0.0, ds.Records[0].Package)
	assert.False(t, ds.Records[0].Internship)
	assert.Empty(t, ds.Records[0].Skills)
}
