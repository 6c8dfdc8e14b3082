package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"orthanc-health/internal/domain/model"
	"orthanc-health/internal/infra/metrics"
	"orthanc-health/pkg/log"
	"orthanc-health/pkg/msg"
)

type healthUseCase struct {
	checkers map[string]Checker
	timeout  time.Duration
}

// NewHealthUseCase wires the three dependency checks under their report keys.
// timeout caps one whole invocation; each check also applies its own per-call timeouts.
func NewHealthUseCase(orthanc, postgres, keycloak Checker, timeout time.Duration) UseCase {
	return &healthUseCase{
		checkers: map[string]Checker{
			model.DependencyOrthanc:  orthanc,
			model.DependencyPostgres: postgres,
			model.DependencyKeycloak: keycloak,
		},
		timeout: timeout,
	}
}

// CheckHealth runs every check concurrently and joins their outcomes into one report.
// Latency is bounded by the slowest check, not by their sum.
func (useCase *healthUseCase) CheckHealth(ctx context.Context) model.HealthReport {
	if useCase.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, useCase.timeout)
		defer cancel()
	}

	outcomes := make([]model.CheckOutcome, len(model.Dependencies))

	var group errgroup.Group
	for i, name := range model.Dependencies {
		i, name := i, name
		checker := useCase.checkers[name]
		group.Go(func() error {
			outcomes[i] = runCheck(ctx, name, checker)
			return nil
		})
	}
	_ = group.Wait()

	merged := make(map[string]model.CheckOutcome, len(outcomes))
	for i, name := range model.Dependencies {
		merged[name] = outcomes[i]
	}

	report := model.NewHealthReport(merged)
	metrics.ReportsTotal.WithLabelValues(string(report.Status)).Inc()
	log.Infow(msg.GetMessage("health.report", report.Status), "details", report.Details)

	return report
}

// runCheck shields the report from a checker that is missing or panics.
func runCheck(ctx context.Context, name string, checker Checker) (outcome model.CheckOutcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			outcome = model.OutcomeError("%v", r)
		}
		metrics.CheckDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		up := 0.0
		if outcome.IsOK() {
			up = 1
		}
		metrics.DependencyUp.WithLabelValues(name).Set(up)
	}()

	if checker == nil {
		return model.OutcomeError("no checker configured for %s", name)
	}
	return checker.Check(ctx)
}
