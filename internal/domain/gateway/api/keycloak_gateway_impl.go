package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"orthanc-health/internal/domain/model"
	httpclient "orthanc-health/pkg/http"
	"orthanc-health/pkg/log"
	"orthanc-health/pkg/msg"
)

// KeycloakUnavailable is the failure message when no liveness endpoint answered 200.
const KeycloakUnavailable = "Keycloak health check failed on all endpoints"

// keycloakGatewayImpl implements the KeycloakGateway interface
type keycloakGatewayImpl struct {
	endpoints []*httpclient.Client
	timeout   time.Duration
}

// NewKeycloakGateway creates a gateway trying each liveness URL in order.
func NewKeycloakGateway(urls []string, timeout time.Duration) KeycloakGateway {
	endpoints := make([]*httpclient.Client, 0, len(urls))
	for _, url := range urls {
		endpoints = append(endpoints, httpclient.NewHttpClient(url, httpclient.ClientOptions{
			ReadTimeout: timeout,
			Logger:      log.NewHTTPLogger("keycloak"),
		}))
	}

	return &keycloakGatewayImpl{
		endpoints: endpoints,
		timeout:   timeout,
	}
}

// Health returns OK on the first endpoint answering 200. A failing endpoint never prevents trying the next one.
func (g *keycloakGatewayImpl) Health(ctx context.Context) model.CheckOutcome {
	for _, endpoint := range g.endpoints {
		err := g.probe(ctx, endpoint)
		if err == nil {
			return model.OutcomeOK()
		}
		log.Warnw(msg.GetMessage("keycloak.attempt-fail", endpoint.BaseURL(), err), "url", endpoint.BaseURL())
	}

	log.Error(msg.GetMessage("keycloak.fail"))
	return model.OutcomeError(KeycloakUnavailable)
}

func (g *keycloakGatewayImpl) probe(parent context.Context, endpoint *httpclient.Client) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("keycloak probe panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(parent, g.timeout)
	defer cancel()

	_, _, status, err := endpoint.Request().WithContext(ctx).Execute()
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Errorf("status %d", statusErr.StatusCode)
	}
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("status %d", status)
	}
	return nil
}
