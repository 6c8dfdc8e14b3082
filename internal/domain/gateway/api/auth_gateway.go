package api

import (
	"context"
	"errors"

	"orthanc-health/internal/domain/model"
)

var (
	// ErrMissingCredentials is returned without any network call when the archive username or password is empty.
	ErrMissingCredentials = errors.New("orthanc credentials not configured")
	// ErrEmptyToken is returned when the auth service answers 200 without a token.
	ErrEmptyToken = errors.New("auth service returned an empty token")
)

// AuthServiceGateway obtains study scoped tokens from orthanc-auth-service.
type AuthServiceGateway interface {
	AcquireToken(ctx context.Context, studyUID string) (model.Token, error)
}
