package db

import (
	"context"
	"fmt"
	"time"

	"orthanc-health/configs"
	"orthanc-health/internal/domain/model"
	"orthanc-health/internal/infra/database/gorm"
	"orthanc-health/internal/infra/database/pq"
	"orthanc-health/pkg/log"
	"orthanc-health/pkg/msg"
)

type PostgresHealthGateway struct {
	open    SessionOpener
	timeout time.Duration
}

var _ HealthDBGateway = (*PostgresHealthGateway)(nil)

func NewPostgresHealthGateway(open SessionOpener, timeout time.Duration) *PostgresHealthGateway {
	return &PostgresHealthGateway{open: open, timeout: timeout}
}

// NewPostgresHealthGatewayFromConfig selects the session driver named by cfg.Driver.
func NewPostgresHealthGatewayFromConfig(cfg configs.DatabaseConfig) (*PostgresHealthGateway, error) {
	dsn := cfg.DSN()

	var open SessionOpener
	switch cfg.Driver {
	case configs.DriverSQL:
		open = func(ctx context.Context) (Session, error) { return pq.Open(ctx, dsn) }
	case configs.DriverGorm:
		open = func(ctx context.Context) (Session, error) { return gorm.Open(ctx, dsn) }
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	return NewPostgresHealthGateway(open, cfg.ConnectTimeout), nil
}

// Health opens a fresh session, runs SELECT 1 and always closes the session exactly once.
func (gateway *PostgresHealthGateway) Health(ctx context.Context) (outcome model.CheckOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = gateway.fail(fmt.Errorf("%v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, gateway.timeout)
	defer cancel()

	session, err := gateway.open(ctx)
	if err != nil {
		return gateway.fail(err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Warnw(msg.GetMessage("postgres.close-fail", closeErr), "error", closeErr)
		}
	}()

	if err := session.SelectOne(ctx); err != nil {
		return gateway.fail(err)
	}

	return model.OutcomeOK()
}

func (gateway *PostgresHealthGateway) fail(err error) model.CheckOutcome {
	log.Errorw(msg.GetMessage("postgres.fail", err), "error", err)
	return model.OutcomeFromError(err)
}
