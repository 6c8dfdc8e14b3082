package api

import (
	"context"

	"orthanc-health/internal/domain/model"
)

// KeycloakGateway checks the identity provider liveness endpoints.
type KeycloakGateway interface {
	Health(ctx context.Context) model.CheckOutcome
}
