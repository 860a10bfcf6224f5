package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bnb-chain/da-syncer/logging"
	"github.com/bnb-chain/da-syncer/service"
)

// Response is the envelope of every API reply.
type Response struct {
	Code    int64       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logging logs the outcome and latency of each request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)
		logging.Logger.Debugf("%s %s status=%d cost=%s", r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	})
}

func Error(err error) (int64, string) {
	switch e := err.(type) {
	case service.Err:
		return e.Code, e.Message
	case nil:
		return service.NoErr.Code, service.NoErr.Message
	default:
		return service.InternalErr.Code, err.Error()
	}
}

func writeResponse(w http.ResponseWriter, data interface{}, err error) {
	code, message := Error(err)
	payload := Response{
		Code:    code,
		Message: message,
	}
	if err == nil {
		payload.Data = data
	} else if code == service.InternalErr.Code {
		logging.Logger.Errorf("failed to serve request, err=%s", err.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(int(code))
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Logger.Errorf("failed to write response, err=%s", err.Error())
	}
}
