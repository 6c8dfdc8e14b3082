package http

// HTTPLogger interface defines methods for logging HTTP requests and responses
type HTTPLogger interface {
	// LogRequest is called before the request is sent with all request data formed
	LogRequest(method, url string, headers map[string]string, body string)

	// LogResponseSuccess is called immediately after receiving a successful response (2xx HTTP status)
	LogResponseSuccess(method, url string, httpStatus int, responseBody string, latency int64)

	// LogResponseError is called after a transport failure (httpStatus 0) or a non-2xx response
	LogResponseError(method, url string, httpStatus int, responseBody string, latency int64, err error)
}

type noopLogger struct{}

func (noopLogger) LogRequest(string, string, map[string]string, string) {}

func (noopLogger) LogResponseSuccess(string, string, int, string, int64) {}

func (noopLogger) LogResponseError(string, string, int, string, int64, error) {}
