package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/insights"
)

func TestRenderDashboard(t *testing.T) {
	ds := &domain.Dataset{CollegeCode: "KLU01", Records: []domain.PlacementRecord{
		{CGPA: 9, Package: 12, Company: "Acme", Branch: "CSE", Internship: true, Year: "2023"},
		{CGPA: 6, Package: 0, Branch: "ECE", Year: "2024"},
	}}

	var buf bytes.Buffer
	require.NoError(t, RenderDashboard(&buf, "KLU01 placement insights", insights.Compute(ds, insights.Filter{})))

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "KLU01 placement insights")
	for _, title := range []string{TitleScatter, TitleCompanies, TitleInternship, TitleBranches, TitleYears} {
		assert.Contains(t, html, title)
	}
	assert.Contains(t, html, "Acme")
}

func TestRenderDashboardEmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	err := RenderDashboard(&buf, "empty", insights.Compute(&domain.Dataset{}, insights.Filter{}))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), TitleScatter)
}
