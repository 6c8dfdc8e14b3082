package log

import (
	"strings"

	"go.uber.org/zap"

	"orthanc-health/pkg/msg"
)

var sensitiveHeaders = map[string]struct{}{
	"api-key":       {},
	"authorization": {},
	"cookie":        {},
}

// HTTPLogger writes outbound HTTP traffic through the zap logger.
// Credentials and tokens found in headers are never written.
type HTTPLogger struct {
	Component string
}

// NewHTTPLogger creates an HTTPLogger tagging entries with the given component name.
func NewHTTPLogger(component string) *HTTPLogger {
	return &HTTPLogger{Component: component}
}

func (l *HTTPLogger) LogRequest(method, url string, headers map[string]string, body string) {
	logger.Debug(msg.GetMessage("http.request", method, url),
		zap.String("component", l.Component),
		zap.String("method", method),
		zap.String("url", url),
		zap.Strings("headers", headerNames(headers)),
		zap.Int("body_size", len(body)),
	)
}

func (l *HTTPLogger) LogResponseSuccess(method, url string, httpStatus int, responseBody string, latency int64) {
	logger.Debug(msg.GetMessage("http.response", method, url, httpStatus, latency),
		zap.String("component", l.Component),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency),
	)
}

func (l *HTTPLogger) LogResponseError(method, url string, httpStatus int, responseBody string, latency int64, err error) {
	logger.Warn(msg.GetMessage("http.response-error", method, url, httpStatus, latency, err),
		zap.String("component", l.Component),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency),
		zap.String("response", truncate(responseBody, 512)),
		zap.Error(err),
	)
}

// headerNames lists header names, marking sensitive ones as redacted.
func headerNames(headers map[string]string) []string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		if _, ok := sensitiveHeaders[strings.ToLower(name)]; ok {
			names = append(names, name+"=[redacted]")
			continue
		}
		names = append(names, name)
	}
	return names
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}
