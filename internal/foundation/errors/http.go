package errors

import (
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter answers dev server requests that failed.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// StatusCodeFor maps err's category to a status. Compile, transform and
// layout failures are 500 so the browser shows the compiler's message.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return outcomeFor(err).status
}

// WriteTextResponse writes the error's detail as a plain-text body.
func (a *HTTPErrorAdapter) WriteTextResponse(w http.ResponseWriter, r *http.Request, err error) {
	body := err.Error()
	level := slog.LevelError
	if c, ok := AsClassified(err); ok {
		body = c.Detail()
		level = c.severity.Level()
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(a.StatusCodeFor(err))
	_, _ = w.Write([]byte(body))

	a.logger.Log(r.Context(), level, "Request failed",
		slog.String("path", r.URL.Path), slog.Any("error", err))
}
