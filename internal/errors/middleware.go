package errors

import (
	"log/slog"
	"net/http"
)

// RecoveryMiddleware provides panic recovery with RFC 7807 responses
func RecoveryMiddleware(handler *ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					handler.HandlePanic(w, r, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LogValue renders the problem for structured logs.
func (pd *ProblemDetails) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", pd.Type),
		slog.Int("status", pd.Status),
		slog.String("detail", pd.Detail),
	)
}
