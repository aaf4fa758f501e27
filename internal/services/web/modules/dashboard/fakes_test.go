package dashboard

import (
	"context"

	"github.com/helpdeck-io/helpdeck/internal/supportapi"
)

// fakeGateway implements AnalyticsGateway for tests with configurable return
// values and call tracking.
type fakeGateway struct {
	metrics     supportapi.DashboardMetrics
	metricsErr  error
	ai          supportapi.AIPerformance
	aiErr       error
	metricCalls int
	aiCalls     int
}

func (f *fakeGateway) DashboardMetrics(context.Context) (supportapi.DashboardMetrics, error) {
	f.metricCalls++
	if f.metricsErr != nil {
		return supportapi.DashboardMetrics{}, f.metricsErr
	}
	return f.metrics, nil
}

func (f *fakeGateway) AIPerformance(context.Context) (supportapi.AIPerformance, error) {
	f.aiCalls++
	if f.aiErr != nil {
		return supportapi.AIPerformance{}, f.aiErr
	}
	return f.ai, nil
}

func (f *fakeGateway) Health(context.Context) (supportapi.Health, error) {
	return supportapi.Health{Status: "healthy"}, nil
}
