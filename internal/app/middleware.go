package app

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const RequestIdHeader = "X-Request-Id"

type requestIdKey struct{}

// RequestId returns the id assigned to the current request, or "" outside of one.
func RequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router) {
	r.Use(requestIdMiddleware)
	r.Use(requestLogMiddleware)
}

// requestIdMiddleware keeps an incoming X-Request-Id or assigns a new one, and echoes it back.
func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(RequestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIdHeader, id)
		ctx := context.WithValue(req.Context(), requestIdKey{}, id)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)

		entry := log.WithFields(log.Fields{
			"requestId": RequestId(req.Context()),
			"method":    req.Method,
			"path":      req.URL.Path,
			"status":    rec.status,
			"duration":  time.Since(start).String(),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request failed")
		} else {
			entry.Debug("request handled")
		}
	})
}
