package dashboard

import (
	"context"
	"sync"

	apperrors "github.com/helpdeck-io/helpdeck/internal/services/web/platform/errors"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/weberror"
	"github.com/helpdeck-io/helpdeck/internal/supportapi"
)

// AnalyticsGateway loads dashboard analytics from the support backend.
type AnalyticsGateway interface {
	DashboardMetrics(ctx context.Context) (supportapi.DashboardMetrics, error)
	AIPerformance(ctx context.Context) (supportapi.AIPerformance, error)
	Health(ctx context.Context) (supportapi.Health, error)
}

// Overview aggregates both analytics endpoints for one page render.
// Errors are carried per section so one failing endpoint degrades only its
// own panel.
type Overview struct {
	Metrics        supportapi.DashboardMetrics
	MetricsError   string
	AI             supportapi.AIPerformance
	AIError        string
	BackendHealthy bool
}

type service struct {
	gateway AnalyticsGateway
}

type unavailableGateway struct{}

func (unavailableGateway) DashboardMetrics(context.Context) (supportapi.DashboardMetrics, error) {
	return supportapi.DashboardMetrics{}, apperrors.E(apperrors.KindUnavailable, "analytics service is not configured")
}

func (unavailableGateway) AIPerformance(context.Context) (supportapi.AIPerformance, error) {
	return supportapi.AIPerformance{}, apperrors.E(apperrors.KindUnavailable, "analytics service is not configured")
}

func (unavailableGateway) Health(context.Context) (supportapi.Health, error) {
	return supportapi.Health{}, apperrors.E(apperrors.KindUnavailable, "analytics service is not configured")
}

func newService(gateway AnalyticsGateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway}
}

// loadOverview fetches both analytics payloads concurrently. The page waits
// for the slower of the two rather than the sum.
func (s service) loadOverview(ctx context.Context) Overview {
	var overview Overview
	var metricsErr, aiErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		overview.Metrics, metricsErr = s.gateway.DashboardMetrics(ctx)
	}()
	go func() {
		defer wg.Done()
		overview.AI, aiErr = s.gateway.AIPerformance(ctx)
	}()
	wg.Wait()

	overview.BackendHealthy = metricsErr == nil || aiErr == nil
	if metricsErr != nil {
		overview.MetricsError = weberror.PublicMessage(apperrors.FromSupportAPI(metricsErr))
	}
	if aiErr != nil {
		overview.AIError = weberror.PublicMessage(apperrors.FromSupportAPI(aiErr))
	}
	return overview
}
