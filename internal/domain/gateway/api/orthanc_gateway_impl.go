package api

import (
	"context"
	"errors"
	"net/url"
	"time"

	httpclient "orthanc-health/pkg/http"
	"orthanc-health/pkg/log"
)

// TokenHeader is the header Orthanc's authorization plugin reads tokens from (TokenHttpHeaders).
const TokenHeader = "api-key"

// orthancGatewayImpl implements the OrthancGateway interface
type orthancGatewayImpl struct {
	httpClient *httpclient.Client
	username   string
	password   string
	timeout    time.Duration
}

// NewOrthancGateway creates a new instance of OrthancGateway with HTTP client
func NewOrthancGateway(baseUrl, username, password string, timeout time.Duration) OrthancGateway {
	httpClient := httpclient.NewHttpClient(baseUrl, httpclient.ClientOptions{
		ReadTimeout:        timeout,
		DefaultContentType: "application/json",
		Logger:             log.NewHTTPLogger("orthanc"),
	})

	return &orthancGatewayImpl{
		httpClient: httpClient,
		username:   username,
		password:   password,
		timeout:    timeout,
	}
}

// SystemStatus calls GET /system with basic credentials.
func (g *orthancGatewayImpl) SystemStatus(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	_, _, status, err := g.httpClient.Request().
		WithContext(ctx).
		WithPath("/system").
		WithBasicAuth(g.username, g.password).
		Execute()

	return statusOnly(status, err)
}

// StudyByDicomWeb calls GET /dicom-web/studies/{uid} presenting the token in the api-key header.
func (g *orthancGatewayImpl) StudyByDicomWeb(ctx context.Context, studyUID string, token string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	_, _, status, err := g.httpClient.Request().
		WithContext(ctx).
		WithPath("/dicom-web/studies/" + url.PathEscape(studyUID)).
		WithHeaders(map[string]string{TokenHeader: token}).
		Execute()

	return statusOnly(status, err)
}

// LookupStudy calls GET /tools/lookup with the raw study UID as body and the api-key header.
func (g *orthancGatewayImpl) LookupStudy(ctx context.Context, studyUID string, token string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	_, _, status, err := g.httpClient.Request().
		WithContext(ctx).
		WithPath("/tools/lookup").
		WithHeaders(map[string]string{TokenHeader: token}).
		WithBody(studyUID).
		Execute()

	return statusOnly(status, err)
}

// statusOnly drops errors that merely describe a received non-2xx status.
func statusOnly(status int, err error) (int, error) {
	var statusErr *httpclient.StatusError
	if err != nil && errors.As(err, &statusErr) {
		return statusErr.StatusCode, nil
	}
	if err != nil && status != 0 {
		// a response arrived but its body could not be read
		return status, nil
	}
	return status, err
}
