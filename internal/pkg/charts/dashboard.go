// Package charts renders placement insights as an interactive HTML dashboard.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/yigit/hirelytics/internal/pkg/insights"
)

// Chart titles, also used by tests to find each chart in the output.
const (
	TitleScatter    = "CGPA vs Package"
	TitleCompanies  = "Top Hiring Companies"
	TitleInternship = "Internship Impact on Package"
	TitleBranches   = "Branch-wise Average Package"
	TitleYears      = "Year-wise Placement Trend"
)

// RenderDashboard writes a self-contained HTML page with one chart per insight.
func RenderDashboard(w io.Writer, pageTitle string, in *insights.Insights) error {
	page := components.NewPage()
	page.PageTitle = pageTitle
	page.AddCharts(
		scatterChart(in),
		companiesChart(in),
		internshipChart(in),
		branchChart(in),
		yearChart(in),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

func title(text, subtitle string) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{Title: text, Subtitle: subtitle})
}

func scatterChart(in *insights.Insights) *charts.Scatter {
	c := charts.NewScatter()
	c.SetGlobalOptions(
		title(TitleScatter, fmt.Sprintf("%d students", len(in.Scatter))),
		charts.WithXAxisOpts(opts.XAxis{Name: "CGPA", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Package (LPA)", Type: "value"}),
	)

	byBranch := make(map[string][]opts.ScatterData)
	for _, p := range in.Scatter {
		byBranch[p.Branch] = append(byBranch[p.Branch], opts.ScatterData{Value: []float64{p.CGPA, p.Package}})
	}
	for _, branch := range in.Branches {
		if points, ok := byBranch[branch]; ok {
			c.AddSeries(branch, points)
		}
	}
	return c
}

func companiesChart(in *insights.Insights) *charts.Bar {
	c := charts.NewBar()
	c.SetGlobalOptions(title(TitleCompanies, "placed students per company"))

	labels := make([]string, 0, len(in.TopCompanies))
	data := make([]opts.BarData, 0, len(in.TopCompanies))
	for _, tc := range in.TopCompanies {
		labels = append(labels, tc.Label)
		data = append(data, opts.BarData{Value: tc.Count})
	}
	c.SetXAxis(labels).AddSeries("Students", data)
	return c
}

func internshipChart(in *insights.Insights) *charts.BoxPlot {
	c := charts.NewBoxPlot()
	c.SetGlobalOptions(title(TitleInternship, "package by internship"))

	labels := make([]string, 0, len(in.InternshipImpact))
	data := make([]opts.BoxPlotData, 0, len(in.InternshipImpact))
	for _, b := range in.InternshipImpact {
		labels = append(labels, b.Group)
		data = append(data, opts.BoxPlotData{Value: []float64{b.Min, b.Q1, b.Median, b.Q3, b.Max}})
	}
	c.SetXAxis(labels).AddSeries("Package", data)
	return c
}

func branchChart(in *insights.Insights) *charts.Bar {
	c := charts.NewBar()
	c.SetGlobalOptions(title(TitleBranches, ""))

	labels := make([]string, 0, len(in.BranchAverages))
	data := make([]opts.BarData, 0, len(in.BranchAverages))
	for _, b := range in.BranchAverages {
		labels = append(labels, b.Branch)
		data = append(data, opts.BarData{Value: b.AveragePackage})
	}
	c.SetXAxis(labels).AddSeries("Average package", data)
	return c
}

func yearChart(in *insights.Insights) *charts.Line {
	c := charts.NewLine()
	c.SetGlobalOptions(title(TitleYears, ""))

	labels := make([]string, 0, len(in.YearTrend))
	students := make([]opts.LineData, 0, len(in.YearTrend))
	placed := make([]opts.LineData, 0, len(in.YearTrend))
	for _, y := range in.YearTrend {
		labels = append(labels, y.Year)
		students = append(students, opts.LineData{Value: y.Students})
		placed = append(placed, opts.LineData{Value: y.Placed})
	}
	c.SetXAxis(labels).
		AddSeries("Students", students).
		AddSeries("Placed", placed)
	return c
}
