package logging

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Middleware gives every request a LogData and logs one line per request
// once the handler returns.
func Middleware(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logData := NewLogData(log)
			endTimer := logData.AddTiming("duration")

			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req.WithContext(WithLogData(req.Context(), logData)))
			endTimer()

			name := req.Method + " " + req.URL.Path
			if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePattern() != "" {
				name = req.Method + " " + rctx.RoutePattern()
			}
			logData.AddData("status", ww.Status())

			entry := logData.Log()
			if ww.Status() >= http.StatusInternalServerError {
				entry.Errorf("Handler.%v.Error", name)
				return
			}
			entry.Infof("Handler.%v.Complete", name)
		})
	}
}
