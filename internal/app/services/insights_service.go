package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/hirelytics/internal/pkg/charts"
	"github.com/yigit/hirelytics/internal/pkg/insights"
)

// InsightsService aggregates a college dataset for the dashboards.
type InsightsService struct {
	datasets *DatasetService
	logger   zerolog.Logger
}

// NewInsightsService creates a new InsightsService
func NewInsightsService(datasets *DatasetService, logger zerolog.Logger) *InsightsService {
	return &InsightsService{datasets: datasets, logger: logger}
}

// Compute returns the insights of the college restricted by filter.
func (s *InsightsService) Compute(ctx context.Context, code string, filter insights.Filter) (*insights.Insights, error) {
	ds, _, err := s.datasets.Load(ctx, code)
	if err != nil {
		return nil, err
	}
	return insights.Compute(ds, filter), nil
}

// Dashboard renders the insights of the college as an HTML page.
func (s *InsightsService) Dashboard(ctx context.Context, code string, filter insights.Filter) ([]byte, error) {
	in, err := s.Compute(ctx, code, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := charts.RenderDashboard(&buf, fmt.Sprintf("%s placement insights", code), in); err != nil {
		return nil, fmt.Errorf("failed to render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}
