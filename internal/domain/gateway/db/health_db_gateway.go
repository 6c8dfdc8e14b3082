package db

import (
	"context"

	"orthanc-health/internal/domain/model"
)

// HealthDBGateway checks the relational datastore.
type HealthDBGateway interface {
	Health(ctx context.Context) model.CheckOutcome
}

// Session is a short-lived datastore connection able to run the SELECT 1 round trip.
type Session interface {
	SelectOne(ctx context.Context) error
	Close() error
}

// SessionOpener opens a new Session for every check.
type SessionOpener func(ctx context.Context) (Session, error)
