package health

import (
	"context"

	"orthanc-health/internal/domain/model"
)

type UseCase interface {
	CheckHealth(ctx context.Context) model.HealthReport
}

// Checker is one dependency check. Implementations never panic past Check and never return an error.
type Checker interface {
	Check(ctx context.Context) model.CheckOutcome
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) model.CheckOutcome

func (f CheckerFunc) Check(ctx context.Context) model.CheckOutcome {
	return f(ctx)
}
