package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"orthanc-health/internal/domain/model"
	"orthanc-health/internal/domain/model/external"
	httpclient "orthanc-health/pkg/http"
	"orthanc-health/pkg/log"
	"orthanc-health/pkg/msg"
)

// tokenExpiration is far enough in the future that a probe token never expires mid-check.
const tokenExpiration = "2099-12-31T23:59:59Z"

// authServiceGatewayImpl implements the AuthServiceGateway interface
type authServiceGatewayImpl struct {
	httpClient *httpclient.Client
	username   string
	password   string
	timeout    time.Duration
	newID      func() string
}

// NewAuthServiceGateway creates a new instance of AuthServiceGateway with HTTP client
func NewAuthServiceGateway(baseUrl, username, password string, timeout time.Duration) AuthServiceGateway {
	httpClient := httpclient.NewHttpClient(baseUrl, httpclient.ClientOptions{
		ReadTimeout: timeout,
		Logger:      log.NewHTTPLogger("orthanc-auth-service"),
	})

	return &authServiceGatewayImpl{
		httpClient: httpClient,
		username:   username,
		password:   password,
		timeout:    timeout,
		newID:      func() string { return "health-check-" + uuid.NewString() },
	}
}

// AcquireToken requests a token scoped to a single study. It never panics; every failure is an error value.
func (g *authServiceGatewayImpl) AcquireToken(ctx context.Context, studyUID string) (token model.Token, err error) {
	if g.username == "" || g.password == "" {
		log.Warn(msg.GetMessage("auth.missing-credentials"))
		return "", ErrMissingCredentials
	}

	defer func() {
		if r := recover(); r != nil {
			token, err = "", fmt.Errorf("token request panicked: %v", r)
			log.Errorw(msg.GetMessage("auth.error", err), "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	request := external.TokenRequest{
		ID:             g.newID(),
		Resources:      []external.TokenResource{{DicomUID: studyUID, Level: external.LevelStudy}},
		Type:           external.TokenType,
		ExpirationDate: tokenExpiration,
	}

	log.Infow(msg.GetMessage("auth.request", g.httpClient.BaseURL()), "request_id", request.ID)

	successResp, _, status, err := g.httpClient.Request().
		WithContext(ctx).
		WithMethod(httpclient.PUT).
		WithPath("/tokens/" + external.TokenType).
		WithBasicAuth(g.username, g.password).
		WithBody(request).
		WithSuccessResp(&external.TokenResponse{}).
		Execute()

	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			log.Errorw(msg.GetMessage("auth.fail", statusErr.StatusCode, statusErr.Body), "status", statusErr.StatusCode)
			return "", fmt.Errorf("auth service returned %d: %w", statusErr.StatusCode, err)
		}
		log.Errorw(msg.GetMessage("auth.error", err), "error", err)
		return "", fmt.Errorf("token request failed: %w", err)
	}
	if status != http.StatusOK {
		log.Errorw(msg.GetMessage("auth.fail", status, ""), "status", status)
		return "", fmt.Errorf("auth service returned %d", status)
	}

	response := successResp.(*external.TokenResponse)
	if response.Token == "" {
		log.Errorw(msg.GetMessage("auth.error", ErrEmptyToken), "status", status)
		return "", ErrEmptyToken
	}

	log.Info(msg.GetMessage("auth.success"))
	return model.Token(response.Token), nil
}
